package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Discount types carried by promotions and minted vouchers.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Promotion is an admin-managed offer a client can claim once.
// TargetAudience holds one of the audience strings understood by the
// loyalty package ("All", "New Clients", "Birthday", "VIP", "Tier Level N").
type Promotion struct {
	BaseModel
	Code           string    `gorm:"uniqueIndex" json:"code"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	DiscountType   string    `json:"discount_type"`
	DiscountValue  float64   `json:"discount_value"`
	ExpiresAt      time.Time `json:"expires_at"`
	TargetAudience string    `gorm:"default:All" json:"target_audience"`
	// ApplicableServices lists service ids the discount applies to.
	// Empty means every service.
	ApplicableServices pq.StringArray `gorm:"type:text[]" json:"applicable_services"`
	MinOrderValue      float64        `json:"min_order_value"`
	UsageCount         int            `gorm:"default:0" json:"usage_count"`
}

// PromotionClaim records that a user claimed a promotion. The composite
// unique index is what makes claiming idempotent.
type PromotionClaim struct {
	BaseModel
	UserID      uuid.UUID  `gorm:"type:uuid;index:idx_claim_user_promo,unique" json:"user_id"`
	PromotionID uuid.UUID  `gorm:"type:uuid;index:idx_claim_user_promo,unique" json:"promotion_id"`
	Promotion   *Promotion `json:"promotion,omitempty"`
}

// RedeemableVoucher is a static catalog entry exchangeable for points.
// Redemption never mutates it; it mints a UserVoucher instead.
type RedeemableVoucher struct {
	BaseModel
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	PointsRequired     int            `json:"points_required"`
	Value              float64        `json:"value"`
	ApplicableServices pq.StringArray `gorm:"type:text[]" json:"applicable_services"`
	TargetAudience     string         `gorm:"default:All" json:"target_audience"`
	IsActive           bool           `gorm:"default:true" json:"is_active"`
}

// Voucher sources.
const (
	VoucherSourceRedeem = "redeem"
	VoucherSourceWheel  = "wheel"
)

// UserVoucher is a promotion-shaped record minted at redemption or wheel
// time, owned exclusively by one user.
type UserVoucher struct {
	BaseModel
	UserID             uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
	Code               string         `gorm:"uniqueIndex" json:"code"`
	Title              string         `json:"title"`
	DiscountType       string         `json:"discount_type"`
	DiscountValue      float64        `json:"discount_value"`
	ExpiresAt          time.Time      `json:"expires_at"`
	ApplicableServices pq.StringArray `gorm:"type:text[]" json:"applicable_services"`
	TargetAudience     string         `gorm:"default:All" json:"target_audience"`
	Source             string         `json:"source"`
	Used               bool           `gorm:"default:false" json:"used"`
}

// Wheel prize kinds.
const (
	PrizePoints       = "points"
	PrizeSpin         = "spin"
	PrizeVoucher      = "voucher"
	PrizeVoucherFixed = "voucher_fixed"
	PrizeNothing      = "nothing"
)

// WheelPrize is one slot on the lucky wheel. Every active prize is an
// equally likely outcome; weighting is achieved by repeating entries.
type WheelPrize struct {
	BaseModel
	Label    string  `json:"label"`
	Kind     string  `json:"kind"`
	Value    float64 `json:"value"`
	IsActive bool    `gorm:"default:true" json:"is_active"`
}
