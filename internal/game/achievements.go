package game

import "github.com/notSunsin/math-hero/internal/model"

// EvaluateBadges returns the IDs of catalog badges whose point threshold
// is met by totalPoints and that are not already in unlocked, in catalog
// (ascending threshold) order. Re-evaluating with the returned badges
// merged into unlocked yields nothing, and since total points never
// decrease, a badge that qualified once keeps qualifying.
func EvaluateBadges(totalPoints int, unlocked []string) []string {
	have := make(map[string]bool, len(unlocked))
	for _, id := range unlocked {
		have[id] = true
	}

	var newBadges []string
	for _, badge := range model.BadgeCatalog {
		if totalPoints >= badge.Points && !have[badge.ID] {
			newBadges = append(newBadges, badge.ID)
		}
	}
	return newBadges
}
