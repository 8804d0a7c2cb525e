package models

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses.
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

type Appointment struct {
	BaseModel
	UserID      uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	User        *User      `json:"user,omitempty"`
	StaffID     *uuid.UUID `gorm:"type:uuid;index" json:"staff_id"`
	Staff       *Staff     `json:"staff,omitempty"`
	ServiceID   uuid.UUID  `gorm:"type:uuid;index" json:"service_id"`
	Service     *Service   `json:"service,omitempty"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	Status      string     `gorm:"default:pending" json:"status"`
	Price       float64    `json:"price"`
	Notes       string     `json:"notes"`
}

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentRefunded  = "refunded"
)

// Payment records money received for an appointment. Completing a
// payment credits wallet points and recalculates the payer's tier.
type Payment struct {
	BaseModel
	AppointmentID *uuid.UUID   `gorm:"type:uuid;index" json:"appointment_id"`
	Appointment   *Appointment `json:"appointment,omitempty"`
	UserID        uuid.UUID    `gorm:"type:uuid;index" json:"user_id"`
	Number        string       `gorm:"uniqueIndex" json:"number"`
	Amount        float64      `json:"amount"`
	Method        string       `json:"method"`
	Status        string       `gorm:"default:pending" json:"status"`
	PaidAt        *time.Time   `json:"paid_at"`
}
