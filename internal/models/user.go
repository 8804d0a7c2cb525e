package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles assignable to a user account.
const (
	RoleClient = "client"
	RoleStaff  = "staff"
	RoleAdmin  = "admin"
)

// User represents an authenticated client, staff member or administrator.
type User struct {
	BaseModel
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Phone        string `gorm:"uniqueIndex" json:"phone"`
	DisplayName  string `json:"display_name"`
	PasswordHash string `json:"-"`
	Role         string `gorm:"default:client" json:"role"`
	TierLevel    int    `gorm:"default:0" json:"tier_level"`
	BirthMonth   int    `json:"birth_month"`
	BirthDay     int    `json:"birth_day"`
	// TotalSpent accumulates completed payment amounts and drives
	// tier recalculation. Tier level never decreases.
	TotalSpent float64       `gorm:"default:0" json:"total_spent"`
	JoinedAt   time.Time     `json:"joined_at"`
	Wallet     *Wallet       `json:"wallet,omitempty"`
	Vouchers   []UserVoucher `json:"vouchers,omitempty"`
}

// Wallet tracks a user's loyalty points and lucky-wheel spins.
type Wallet struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Points    int       `gorm:"default:0" json:"points"`
	SpinsLeft int       `gorm:"default:0" json:"spins_left"`
}
