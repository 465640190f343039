package services

import (
	"testing"

	"tripsmith/internal/models/response_models"
)

func TestBestActivityMatch(t *testing.T) {
	activities := []response_models.Activity{
		{Name: "Tsukiji market walk", Category: "food", Notes: "street food and seafood"},
		{Name: "National museum", Category: "museums"},
		{Name: "Mount Takao hike", Category: "outdoors", Notes: "forest trail with mountain views"},
	}

	tests := []struct {
		name     string
		category string
		want     int
	}{
		{"exact category", "museums", 1},
		{"exact case-insensitive", "FOOD", 0},
		{"substring of name", "takao", 2},
		{"category inside request", "local food tours", 0},
		{"keyword overlap", "mountain forest walking", 2},
		{"no relation", "scuba diving", -1},
		{"empty category", "", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BestActivityMatch(tt.category, activities); got != tt.want {
				t.Fatalf("BestActivityMatch(%q) = %d, want %d", tt.category, got, tt.want)
			}
		})
	}
}

func TestBestActivityMatchTieBreaksOnInputOrder(t *testing.T) {
	// Both activities overlap the request on exactly one keyword; the
	// earlier one must win every time.
	activities := []response_models.Activity{
		{Name: "Harbor boat ride", Category: "water"},
		{Name: "Harbor photography", Category: "photo"},
	}

	for i := 0; i < 10; i++ {
		if got := BestActivityMatch("harbor sunset", activities); got != 0 {
			t.Fatalf("tie-break not stable: got index %d, want 0", got)
		}
	}
}

func TestCoverageReport(t *testing.T) {
	activities := []response_models.Activity{
		{Name: "Tsukiji market walk", Category: "food"},
	}

	covered, missing := CoverageReport([]string{"food", "museums"}, activities)
	if len(covered) != 1 || covered[0] != "food" {
		t.Fatalf("covered = %v, want [food]", covered)
	}
	if len(missing) != 1 || missing[0] != "museums" {
		t.Fatalf("missing = %v, want [museums]", missing)
	}
}
