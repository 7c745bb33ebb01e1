package task

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func items(scores ...float64) []WorkItem {
	out := make([]WorkItem, len(scores))
	for i, s := range scores {
		out[i] = WorkItem{TargetQuery: string(rune('a' + i)), PriorityScore: s}
	}
	return out
}

func queries(items []WorkItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.TargetQuery
	}
	return out
}

func scores(items []WorkItem) []float64 {
	out := make([]float64, len(items))
	for i, item := range items {
		out[i] = item.PriorityScore
	}
	return out
}

func TestSelect_EndToEnd(t *testing.T) {
	in := items(3.0, 0.5, 2.0, 1.0, 5.0, 1.0, 4.0)

	got := Select(in, 1.0, 5)

	if diff := cmp.Diff([]float64{5.0, 4.0, 3.0, 2.0, 1.0}, scores(got)); diff != "" {
		t.Errorf("scores mismatch (-want +got):\n%s", diff)
	}
	// The first of the two 1.0 rows wins the last slot.
	if diff := cmp.Diff([]string{"e", "g", "a", "c", "d"}, queries(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSelect_Stable(t *testing.T) {
	in := items(2.0, 1.0, 2.0, 1.0, 2.0)

	got := Select(in, 0, -1)

	if diff := cmp.Diff([]string{"a", "c", "e", "b", "d"}, queries(got)); diff != "" {
		t.Errorf("equal scores must keep input order (-want +got):\n%s", diff)
	}
}

func TestSelect_Properties(t *testing.T) {
	tests := []struct {
		name      string
		in        []WorkItem
		threshold float64
		limit     int
		wantLen   int
	}{
		{"empty input", nil, 1.0, 5, 0},
		{"zero cap", items(3, 2, 1), 1.0, 0, 0},
		{"cap larger than input", items(3, 2), 1.0, 10, 2},
		{"all below threshold", items(0.1, 0.9), 1.0, 5, 0},
		{"negative threshold keeps negatives", items(-1, -2), -5, 5, 2},
		{"no cap", items(1, 2, 3, 4, 5, 6, 7), 0, -1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Select(tt.in, tt.threshold, tt.limit)

			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			for i, item := range got {
				if item.PriorityScore < tt.threshold {
					t.Errorf("item %d below threshold: %v", i, item.PriorityScore)
				}
				if i > 0 && got[i-1].PriorityScore < item.PriorityScore {
					t.Errorf("not descending at %d: %v < %v", i, got[i-1].PriorityScore, item.PriorityScore)
				}
			}
		})
	}
}

func TestSelect_DoesNotModifyInput(t *testing.T) {
	in := items(1, 3, 2)

	_ = Select(in, 0, 2)

	if diff := cmp.Diff([]float64{1, 3, 2}, scores(in)); diff != "" {
		t.Errorf("input modified (-want +got):\n%s", diff)
	}
}
