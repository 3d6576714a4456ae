package repository

import (
	"testing"
	"time"

	"github.com/notSunsin/math-hero/internal/model"
)

func TestSortAchievements(t *testing.T) {
	// Same-transaction unlocks share a timestamp; lexical badge IDs
	// would put badge1000 before badge250.
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	achievements := []model.Achievement{
		{BadgeID: "badge1000", UnlockedAt: at},
		{BadgeID: "badge250", UnlockedAt: at},
		{BadgeID: "badge100", UnlockedAt: at},
		{BadgeID: "badge500", UnlockedAt: at},
	}

	sortAchievements(achievements)

	want := []string{"badge100", "badge250", "badge500", "badge1000"}
	for i, id := range want {
		if achievements[i].BadgeID != id {
			t.Fatalf("position %d = %s, want %s (got order %v)", i, achievements[i].BadgeID, id, badgeIDs(achievements))
		}
	}
}

func TestSortAchievementsUnknownBadgesLast(t *testing.T) {
	at := time.Now()
	achievements := []model.Achievement{
		{BadgeID: "badge9999", UnlockedAt: at},
		{BadgeID: "badge500", UnlockedAt: at},
		{BadgeID: "badge100", UnlockedAt: at},
	}

	sortAchievements(achievements)

	got := badgeIDs(achievements)
	want := []string{"badge100", "badge500", "badge9999"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func badgeIDs(achievements []model.Achievement) []string {
	ids := make([]string, len(achievements))
	for i, a := range achievements {
		ids[i] = a.BadgeID
	}
	return ids
}
