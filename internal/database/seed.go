package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/example/lotus/internal/models"
)

// Seed inserts reference data into empty tables: the tier ladder and a
// default wheel prize table. Existing rows are never touched.
func Seed(conn *gorm.DB) error {
	if err := seedTiers(conn); err != nil {
		return err
	}
	return seedWheelPrizes(conn)
}

func seedTiers(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&models.Tier{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tiers := []models.Tier{
		{Level: 1, Name: "Bronze", PointsThreshold: 100, SpendingThreshold: 500000, BonusMultiplier: 1},
		{Level: 2, Name: "Silver", PointsThreshold: 300, SpendingThreshold: 1500000, BonusMultiplier: 1.05},
		{Level: 3, Name: "Gold", PointsThreshold: 800, SpendingThreshold: 4000000, BonusMultiplier: 1.1},
		{Level: 4, Name: "Platinum", PointsThreshold: 1500, SpendingThreshold: 8000000, BonusMultiplier: 1.15},
		{Level: 5, Name: "Diamond", PointsThreshold: 3000, SpendingThreshold: 15000000, BonusMultiplier: 1.2},
		{Level: 6, Name: "Sapphire", PointsThreshold: 5000, SpendingThreshold: 25000000, BonusMultiplier: 1.25},
		{Level: 7, Name: "Ruby", PointsThreshold: 8000, SpendingThreshold: 40000000, BonusMultiplier: 1.3},
		{Level: 8, Name: "Royal", PointsThreshold: 12000, SpendingThreshold: 60000000, BonusMultiplier: 1.4},
	}

	if err := conn.Create(&tiers).Error; err != nil {
		return err
	}

	log.Printf("seeded %d loyalty tiers", len(tiers))
	return nil
}

func seedWheelPrizes(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&models.WheelPrize{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	// Duplicated entries weight the draw; every row is one equally
	// likely slot on the wheel.
	prizes := []models.WheelPrize{
		{Label: "50 points", Kind: models.PrizePoints, Value: 50, IsActive: true},
		{Label: "50 points", Kind: models.PrizePoints, Value: 50, IsActive: true},
		{Label: "100 points", Kind: models.PrizePoints, Value: 100, IsActive: true},
		{Label: "Free spin", Kind: models.PrizeSpin, Value: 1, IsActive: true},
		{Label: "10% off voucher", Kind: models.PrizeVoucher, Value: 10, IsActive: true},
		{Label: "30k off voucher", Kind: models.PrizeVoucherFixed, Value: 30000, IsActive: true},
		{Label: "Better luck next time", Kind: models.PrizeNothing, IsActive: true},
		{Label: "Better luck next time", Kind: models.PrizeNothing, IsActive: true},
	}

	if err := conn.Create(&prizes).Error; err != nil {
		return err
	}

	log.Printf("seeded %d wheel prizes", len(prizes))
	return nil
}
