package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/lotus/internal/loyalty"
	"github.com/example/lotus/internal/middleware"
	"github.com/example/lotus/internal/models"
)

// ProfileHandler serves the authenticated user's own data.
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// GetProfile returns the current user with wallet and tier name.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.Preload("Wallet").First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	tierName := ""
	if user.TierLevel > 0 {
		var tier models.Tier
		if err := h.db.First(&tier, "level = ?", user.TierLevel).Error; err == nil {
			tierName = tier.Name
		}
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"data":      user,
		"tier_name": tierName,
	})
}

type updateProfileRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	BirthMonth int    `json:"birth_month"`
	BirthDay   int    `json:"birth_day"`
}

// UpdateProfile updates name and birthday fields.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.BirthMonth < 0 || req.BirthMonth > 12 || req.BirthDay < 0 || req.BirthDay > 31 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid birthday")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	user.DisplayName = user.FirstName + " " + user.LastName
	if req.BirthMonth != 0 {
		user.BirthMonth = req.BirthMonth
	}
	if req.BirthDay != 0 {
		user.BirthDay = req.BirthDay
	}

	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}

// GetWallet returns the current user's wallet.
func (h *ProfileHandler) GetWallet(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var wallet models.Wallet
	if err := h.db.First(&wallet, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "wallet not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": wallet})
}

// ListMyVouchers returns the user's minted vouchers, each annotated
// with the countdown and expiring-soon badge the clients poll for.
func (h *ProfileHandler) ListMyVouchers(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var vouchers []models.UserVoucher
	if err := h.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&vouchers).Error; err != nil {
		return err
	}

	now := time.Now()
	data := make([]fiber.Map, len(vouchers))
	for i, v := range vouchers {
		remaining := loyalty.Remaining(v.ExpiresAt, now)
		data[i] = fiber.Map{
			"voucher":       v,
			"remaining":     remaining,
			"expired":       remaining.Expired(),
			"expiring_soon": loyalty.ExpiringSoon(v.ExpiresAt, now),
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": data})
}

// ListMyClaims returns the user's claimed promotions.
func (h *ProfileHandler) ListMyClaims(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var claims []models.PromotionClaim
	if err := h.db.Preload("Promotion").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&claims).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": claims})
}
