package game

import (
	"reflect"
	"testing"
)

func TestEvaluateBadges(t *testing.T) {
	tests := []struct {
		name     string
		points   int
		unlocked []string
		want     []string
	}{
		{name: "zero points", points: 0, unlocked: nil, want: nil},
		{name: "just below first threshold", points: 99, unlocked: nil, want: nil},
		{name: "first threshold", points: 100, unlocked: nil, want: []string{"badge100"}},
		{name: "two thresholds at once", points: 300, unlocked: nil, want: []string{"badge100", "badge250"}},
		{name: "everything", points: 1500, unlocked: nil, want: []string{"badge100", "badge250", "badge500", "badge1000"}},
		{name: "already unlocked skipped", points: 300, unlocked: []string{"badge100"}, want: []string{"badge250"}},
		{name: "all unlocked", points: 2000, unlocked: []string{"badge100", "badge250", "badge500", "badge1000"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateBadges(tt.points, tt.unlocked)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("EvaluateBadges(%d, %v) = %v, want %v", tt.points, tt.unlocked, got, tt.want)
			}
		})
	}
}

func TestEvaluateBadgesIdempotent(t *testing.T) {
	for _, points := range []int{0, 100, 250, 777, 1000, 5000} {
		first := EvaluateBadges(points, nil)
		again := EvaluateBadges(points, first)
		if len(again) != 0 {
			t.Errorf("points=%d: re-evaluation returned %v, want none", points, again)
		}
	}
}

func TestEvaluateBadgesMonotone(t *testing.T) {
	// A badge unlocked at 100 points stays covered at every higher total:
	// it is either already in the unlocked set or reported again.
	unlocked := EvaluateBadges(100, nil)
	for _, points := range []int{100, 250, 999, 10000} {
		extra := EvaluateBadges(points, unlocked)
		covered := map[string]bool{}
		for _, id := range unlocked {
			covered[id] = true
		}
		for _, id := range extra {
			covered[id] = true
		}
		if !covered["badge100"] {
			t.Errorf("points=%d: badge100 no longer qualifies", points)
		}
	}
}
