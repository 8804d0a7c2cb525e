package loyalty

import (
	"testing"

	"github.com/example/lotus/internal/models"
)

func tierTable() []models.Tier {
	return []models.Tier{
		{Level: 1, Name: "Bronze", PointsThreshold: 100, SpendingThreshold: 500000},
		{Level: 2, Name: "Silver", PointsThreshold: 500, SpendingThreshold: 2000000},
		{Level: 3, Name: "Gold", PointsThreshold: 1500, SpendingThreshold: 5000000},
	}
}

func TestRecalculateTier(t *testing.T) {
	tests := []struct {
		name   string
		level  int
		spent  float64
		points int
		want   int
	}{
		{"no progress", 0, 0, 0, 0},
		{"points reach bronze", 0, 0, 120, 1},
		{"spending reaches silver", 0, 2500000, 0, 2},
		{"either threshold counts", 0, 600000, 600, 2},
		{"tops out at gold", 0, 9000000, 9000, 3},
		{"never decreases", 3, 0, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := testUser(func(u *models.User) {
				u.TierLevel = tt.level
				u.TotalSpent = tt.spent
			})
			if got := RecalculateTier(tierTable(), u, tt.points); got != tt.want {
				t.Errorf("RecalculateTier() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidateTierOrder(t *testing.T) {
	if err := ValidateTierOrder(tierTable()); err != nil {
		t.Fatalf("valid table rejected: %v", err)
	}

	dup := append(tierTable(), models.Tier{Level: 3, PointsThreshold: 9999, SpendingThreshold: 9999999})
	if err := ValidateTierOrder(dup); err == nil {
		t.Error("duplicate level must be rejected")
	}

	flat := tierTable()
	flat[2].PointsThreshold = flat[1].PointsThreshold
	if err := ValidateTierOrder(flat); err == nil {
		t.Error("non-increasing points threshold must be rejected")
	}
}
