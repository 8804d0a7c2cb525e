package models

import "github.com/google/uuid"

type ServiceCategory struct {
	BaseModel
	Name        string    `json:"name"`
	Slug        string    `gorm:"uniqueIndex" json:"slug"`
	Subtitle    string    `json:"subtitle"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Services    []Service `json:"services,omitempty"`
}

type Service struct {
	BaseModel
	CategoryID  *uuid.UUID       `gorm:"type:uuid" json:"category_id"`
	Category    *ServiceCategory `json:"category,omitempty"`
	Name        string           `json:"name"`
	Slug        string           `gorm:"uniqueIndex" json:"slug"`
	Description string           `json:"description"`
	Image       string           `json:"image"`
	Price       float64          `json:"price"`
	// DurationMinutes is the booked slot length.
	DurationMinutes int  `json:"duration_minutes"`
	IsActive        bool `gorm:"default:true" json:"is_active"`
}

// Tier is static loyalty reference data. Thresholds strictly increase
// with level; that is validated on create and update.
type Tier struct {
	BaseModel
	Level             int     `gorm:"uniqueIndex" json:"level"`
	Name              string  `json:"name"`
	PointsThreshold   int     `json:"points_threshold"`
	SpendingThreshold float64 `json:"spending_threshold"`
	BonusMultiplier   float64 `gorm:"default:1" json:"bonus_multiplier"`
}

type Staff struct {
	BaseModel
	UserID    *uuid.UUID `gorm:"type:uuid" json:"user_id"`
	User      *User      `json:"user,omitempty"`
	Name      string     `json:"name"`
	Title     string     `json:"title"`
	Specialty string     `json:"specialty"`
	Image     string     `json:"image"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
}
