package loyalty

import (
	"fmt"
	"sort"

	"github.com/example/lotus/internal/models"
)

// RecalculateTier returns the user's tier level after accounting for
// current spending and points. Levels only ever move up: the result is
// never below the user's current level.
func RecalculateTier(tiers []models.Tier, user *models.User, points int) int {
	level := user.TierLevel
	for _, t := range tiers {
		if t.Level <= level {
			continue
		}
		if user.TotalSpent >= t.SpendingThreshold || points >= t.PointsThreshold {
			level = t.Level
		}
	}
	return level
}

// ValidateTierOrder checks that thresholds strictly increase with
// level across the whole tier table.
func ValidateTierOrder(tiers []models.Tier) error {
	sorted := append(tiers[:0:0], tiers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Level < sorted[j].Level })

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if cur.Level == prev.Level {
			return fmt.Errorf("duplicate tier level %d", cur.Level)
		}
		if cur.PointsThreshold <= prev.PointsThreshold || cur.SpendingThreshold <= prev.SpendingThreshold {
			return fmt.Errorf("tier level %d thresholds must exceed level %d", cur.Level, prev.Level)
		}
	}
	return nil
}
