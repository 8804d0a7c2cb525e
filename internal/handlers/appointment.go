package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/lotus/internal/config"
	"github.com/example/lotus/internal/loyalty"
	"github.com/example/lotus/internal/middleware"
	"github.com/example/lotus/internal/models"
	"github.com/example/lotus/internal/services"
	"github.com/example/lotus/internal/utils"
)

// AppointmentHandler manages appointments and their payments.
type AppointmentHandler struct {
	db       *gorm.DB
	cfg      *config.Config
	telegram *services.TelegramService
}

// NewAppointmentHandler constructs AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, cfg *config.Config, telegram *services.TelegramService) *AppointmentHandler {
	return &AppointmentHandler{db: db, cfg: cfg, telegram: telegram}
}

type createAppointmentRequest struct {
	ServiceID   string    `json:"service_id"`
	StaffID     string    `json:"staff_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Notes       string    `json:"notes"`
}

// CreateAppointment books a service for the authenticated user.
func (h *AppointmentHandler) CreateAppointment(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid service_id")
	}

	var service models.Service
	if err := h.db.First(&service, "id = ? AND is_active = ?", serviceID, true).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "service not found")
		}
		return err
	}

	if req.ScheduledAt.Before(time.Now()) {
		return fiber.NewError(fiber.StatusBadRequest, "scheduled_at must be in the future")
	}

	appointment := models.Appointment{
		UserID:      userID,
		ServiceID:   service.ID,
		ScheduledAt: req.ScheduledAt,
		Status:      models.AppointmentPending,
		Price:       service.Price,
		Notes:       req.Notes,
	}

	if req.StaffID != "" {
		staffID, err := uuid.Parse(req.StaffID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid staff_id")
		}
		var staff models.Staff
		if err := h.db.First(&staff, "id = ? AND is_active = ?", staffID, true).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusNotFound, "staff not found")
			}
			return err
		}
		appointment.StaffID = &staff.ID
	}

	if err := h.db.Create(&appointment).Error; err != nil {
		return err
	}

	go h.notifyBooking(appointment, service.Name)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": appointment})
}

func (h *AppointmentHandler) notifyBooking(appointment models.Appointment, serviceName string) {
	if h.telegram == nil {
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", appointment.UserID).Error; err != nil {
		log.Printf("[Appointment] failed to load user for notification: %v", err)
		return
	}

	staffName := ""
	if appointment.StaffID != nil {
		var staff models.Staff
		if err := h.db.First(&staff, "id = ?", *appointment.StaffID).Error; err == nil {
			staffName = staff.Name
		}
	}

	notification := services.AppointmentNotification{
		ClientName:  user.DisplayName,
		ClientPhone: user.Phone,
		ServiceName: serviceName,
		StaffName:   staffName,
		ScheduledAt: appointment.ScheduledAt,
		Price:       appointment.Price,
		Notes:       appointment.Notes,
	}
	if err := h.telegram.NotifyNewAppointment(notification); err != nil {
		log.Printf("[Appointment] Telegram notification failed: %v", err)
	}
}

// ListAppointments returns appointments. Clients see their own; admins
// see everyone's.
func (h *AppointmentHandler) ListAppointments(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Appointment{})

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}
	if user.Role != models.RoleAdmin && user.Role != models.RoleStaff {
		query = query.Where("user_id = ?", userID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if staffID := c.Query("staff_id"); staffID != "" {
		if id, err := uuid.Parse(staffID); err == nil {
			query = query.Where("staff_id = ?", id)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var appointments []models.Appointment
	if err := query.Preload("Service").Preload("Staff").
		Order("scheduled_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&appointments).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       appointments,
		"pagination": pg.Envelope(total),
	})
}

// GetAppointment returns a single appointment for its owner.
func (h *AppointmentHandler) GetAppointment(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var appointment models.Appointment
	if err := h.db.Preload("Service").Preload("Staff").
		First(&appointment, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "appointment not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": appointment})
}

type updateAppointmentStatusRequest struct {
	Status string `json:"status"`
}

// UpdateAppointmentStatus moves an appointment through its lifecycle.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateAppointmentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	switch req.Status {
	case models.AppointmentPending, models.AppointmentConfirmed,
		models.AppointmentCompleted, models.AppointmentCancelled:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unknown status")
	}

	var appointment models.Appointment
	if err := h.db.First(&appointment, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "appointment not found")
		}
		return err
	}

	appointment.Status = req.Status
	if err := h.db.Save(&appointment).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": appointment})
}

// Payments

type createPaymentRequest struct {
	AppointmentID string  `json:"appointment_id"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
}

// CreatePayment records a pending payment for an appointment.
func (h *AppointmentHandler) CreatePayment(c *fiber.Ctx) error {
	var req createPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	appointmentID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid appointment_id")
	}

	var appointment models.Appointment
	if err := h.db.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "appointment not found")
		}
		return err
	}

	amount := req.Amount
	if amount == 0 {
		amount = appointment.Price
	}
	if amount < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "amount must not be negative")
	}

	payment := models.Payment{
		AppointmentID: &appointment.ID,
		UserID:        appointment.UserID,
		Number:        generatePaymentNumber(),
		Amount:        amount,
		Method:        req.Method,
		Status:        models.PaymentPending,
	}

	if err := h.db.Create(&payment).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payment})
}

// ListPayments returns payments. Clients see their own; staff and
// admins see everyone's.
func (h *AppointmentHandler) ListPayments(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Payment{})

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}
	if user.Role != models.RoleAdmin && user.Role != models.RoleStaff {
		query = query.Where("user_id = ?", userID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var payments []models.Payment
	if err := query.Preload("Appointment").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&payments).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       payments,
		"pagination": pg.Envelope(total),
	})
}

// CompletePayment marks a payment as completed, credits loyalty points
// at the configured earn rate and recalculates the payer's tier. All of
// it commits in one transaction.
func (h *AppointmentHandler) CompletePayment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var payment models.Payment

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&payment, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusNotFound, "payment not found")
			}
			return err
		}

		if payment.Status == models.PaymentCompleted {
			return fiber.NewError(fiber.StatusBadRequest, "payment already completed")
		}

		now := time.Now()
		payment.Status = models.PaymentCompleted
		payment.PaidAt = &now
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		if payment.AppointmentID != nil {
			if err := tx.Model(&models.Appointment{}).
				Where("id = ?", *payment.AppointmentID).
				Update("status", models.AppointmentCompleted).Error; err != nil {
				return err
			}
		}

		var user models.User
		if err := tx.First(&user, "id = ?", payment.UserID).Error; err != nil {
			return err
		}

		var wallet models.Wallet
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&wallet, "user_id = ?", payment.UserID).Error; err != nil {
			return err
		}

		wallet.Points += int(payment.Amount * h.cfg.PointsEarnRate)
		if err := tx.Save(&wallet).Error; err != nil {
			return err
		}

		var tiers []models.Tier
		if err := tx.Order("level asc").Find(&tiers).Error; err != nil {
			return err
		}

		user.TotalSpent += payment.Amount
		user.TierLevel = loyalty.RecalculateTier(tiers, &user, wallet.Points)
		return tx.Save(&user).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": payment})
}

func generatePaymentNumber() string {
	return fmt.Sprintf("PAY-%d", time.Now().UnixNano()%1000000000)
}
