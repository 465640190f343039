package utils

import (
	"strings"
	"time"
)

const localDateLayout = "2006-01-02"

// ParseLocalDate extracts the calendar-date part of a local timestamp,
// ignoring time-of-day and any timezone offset suffix. Comparing clock
// times across timezones would skew night counts, so only the date-only
// prefix is trusted.
func ParseLocalDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "T "); i != -1 {
		s = s[:i]
	}
	if len(s) != len(localDateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(localDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// WholeDaysBetween returns b − a in whole days. Both inputs are expected
// to be midnight-normalized, as ParseLocalDate produces.
func WholeDaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
