package services

import (
	"strings"

	"tripsmith/internal/models/response_models"
)

// BestActivityMatch finds the scheduled activity that best matches a
// requested free-text category: exact match first, then substring, then
// keyword overlap. Ties on overlap score resolve to the earliest activity
// in input order, keeping the result deterministic. Returns -1 when no
// activity shares anything with the category.
func BestActivityMatch(category string, activities []response_models.Activity) int {
	want := strings.ToLower(strings.TrimSpace(category))
	if want == "" || len(activities) == 0 {
		return -1
	}

	for i, a := range activities {
		if strings.ToLower(a.Category) == want || strings.ToLower(a.Name) == want {
			return i
		}
	}

	for i, a := range activities {
		cat := strings.ToLower(a.Category)
		haystack := cat + " " + strings.ToLower(a.Name)
		if strings.Contains(haystack, want) || (cat != "" && strings.Contains(want, cat)) {
			return i
		}
	}

	wantWords := strings.Fields(want)
	best, bestScore := -1, 0
	for i, a := range activities {
		score := keywordOverlap(wantWords, strings.Fields(strings.ToLower(a.Category+" "+a.Name+" "+a.Notes)))
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// CoverageReport splits the requested categories into those matched by at
// least one scheduled activity and those left unmatched.
func CoverageReport(requested []string, activities []response_models.Activity) (covered, missing []string) {
	for _, cat := range requested {
		if BestActivityMatch(cat, activities) >= 0 {
			covered = append(covered, cat)
		} else {
			missing = append(missing, cat)
		}
	}
	return covered, missing
}

func keywordOverlap(a, b []string) int {
	seen := make(map[string]bool, len(a))
	for _, w := range a {
		if len(w) > 2 {
			seen[w] = true
		}
	}
	count := 0
	for _, w := range b {
		if seen[w] {
			count++
			delete(seen, w)
		}
	}
	return count
}
