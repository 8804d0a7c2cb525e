package handlers

import (
	"gorm.io/gorm"

	"github.com/example/lotus/internal/models"
)

// gormStore backs loyalty.Store with a gorm transaction so ledger
// writes commit or roll back as one unit.
type gormStore struct {
	tx *gorm.DB
}

func (s gormStore) SavePromotion(p *models.Promotion) error {
	return s.tx.Save(p).Error
}

func (s gormStore) SaveWallet(w *models.Wallet) error {
	return s.tx.Save(w).Error
}

func (s gormStore) CreateClaim(c *models.PromotionClaim) error {
	return s.tx.Create(c).Error
}

func (s gormStore) CreateVoucher(v *models.UserVoucher) error {
	return s.tx.Create(v).Error
}
