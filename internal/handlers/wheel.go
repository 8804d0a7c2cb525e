package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/lotus/internal/loyalty"
	"github.com/example/lotus/internal/middleware"
	"github.com/example/lotus/internal/models"
)

// WheelHandler manages the lucky wheel prize table and spins.
type WheelHandler struct {
	db *gorm.DB
}

// NewWheelHandler constructs WheelHandler.
func NewWheelHandler(db *gorm.DB) *WheelHandler {
	return &WheelHandler{db: db}
}

// ListPrizes returns the active prize table in wheel order.
func (h *WheelHandler) ListPrizes(c *fiber.Ctx) error {
	var prizes []models.WheelPrize
	if err := h.db.Where("is_active = ?", true).
		Order("created_at asc").
		Find(&prizes).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": prizes})
}

// CreatePrize persists a new wheel prize.
func (h *WheelHandler) CreatePrize(c *fiber.Ctx) error {
	var payload models.WheelPrize
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	switch payload.Kind {
	case models.PrizePoints, models.PrizeSpin, models.PrizeVoucher,
		models.PrizeVoucherFixed, models.PrizeNothing:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unknown prize kind")
	}

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// UpdatePrize updates an existing wheel prize.
func (h *WheelHandler) UpdatePrize(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var prize models.WheelPrize
	if err := h.db.First(&prize, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "prize not found")
		}
		return err
	}

	var payload models.WheelPrize
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	payload.ID = prize.ID
	if err := h.db.Model(&prize).Updates(payload).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": prize})
}

// DeletePrize removes a wheel prize by ID.
func (h *WheelHandler) DeletePrize(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.WheelPrize{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Spin consumes one spin and draws a prize. The wallet row is locked
// for the duration of the transaction, so only one spin per wallet is
// ever in flight.
func (h *WheelHandler) Spin(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var result *loyalty.SpinResult
	var wallet models.Wallet

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&wallet, "user_id = ?", userID).Error; err != nil {
			return err
		}

		var prizes []models.WheelPrize
		if err := tx.Where("is_active = ?", true).
			Order("created_at asc").
			Find(&prizes).Error; err != nil {
			return err
		}

		ledger := loyalty.NewLedger(gormStore{tx: tx})
		spun, err := ledger.Spin(&user, &wallet, prizes, nil)
		if err != nil {
			return err
		}
		result = spun
		return nil
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe
		}
		return loyaltyError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
		"wallet":  wallet,
	})
}
