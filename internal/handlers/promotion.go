package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/lotus/internal/loyalty"
	"github.com/example/lotus/internal/middleware"
	"github.com/example/lotus/internal/models"
	"github.com/example/lotus/internal/utils"
)

// PromotionHandler manages promotions, the redeemable voucher catalog,
// claims and redemptions.
type PromotionHandler struct {
	db *gorm.DB
}

// NewPromotionHandler constructs PromotionHandler.
func NewPromotionHandler(db *gorm.DB) *PromotionHandler {
	return &PromotionHandler{db: db}
}

// loyaltyError maps rule violations from the loyalty package onto HTTP
// errors. ErrAlreadyClaimed is handled by the claim endpoint itself.
func loyaltyError(err error) error {
	switch {
	case errors.Is(err, loyalty.ErrNotAuthenticated):
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	case errors.Is(err, loyalty.ErrIneligibleAudience):
		return fiber.NewError(fiber.StatusForbidden, "you are not in this offer's target audience")
	case errors.Is(err, loyalty.ErrInsufficientPoints):
		return fiber.NewError(fiber.StatusBadRequest, "not enough points")
	case errors.Is(err, loyalty.ErrNoSpinsLeft):
		return fiber.NewError(fiber.StatusBadRequest, "no spins left")
	case errors.Is(err, loyalty.ErrNoPrizes):
		return fiber.NewError(fiber.StatusConflict, "the wheel has no prizes configured")
	}
	return err
}

// Promotions

// ListPromotions returns all promotions for the admin console,
// annotated with expiry state.
func (h *PromotionHandler) ListPromotions(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Promotion{})

	if audience := c.Query("audience"); audience != "" {
		query = query.Where("target_audience = ?", audience)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var promos []models.Promotion
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&promos).Error; err != nil {
		return err
	}

	now := time.Now()
	data := make([]fiber.Map, len(promos))
	for i, p := range promos {
		data[i] = fiber.Map{
			"promotion":     p,
			"remaining":     loyalty.Remaining(p.ExpiresAt, now),
			"expiring_soon": loyalty.ExpiringSoon(p.ExpiresAt, now),
		}
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       data,
		"pagination": pg.Envelope(total),
	})
}

// AvailablePromotions returns promotions the current user can still
// claim, in catalog order.
func (h *PromotionHandler) AvailablePromotions(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	var promos []models.Promotion
	if err := h.db.Order("created_at asc").Find(&promos).Error; err != nil {
		return err
	}

	var claims []models.PromotionClaim
	if err := h.db.Where("user_id = ?", userID).Find(&claims).Error; err != nil {
		return err
	}
	claimed := make(map[uuid.UUID]bool, len(claims))
	for _, cl := range claims {
		claimed[cl.PromotionID] = true
	}

	available := loyalty.AvailablePromotions(promos, &user, claimed, time.Now())
	return c.JSON(fiber.Map{"success": true, "data": available})
}

// CreatePromotion persists a new promotion after validating its
// audience string.
func (h *PromotionHandler) CreatePromotion(c *fiber.Ctx) error {
	var payload models.Promotion
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if payload.Code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "code is required")
	}
	if payload.DiscountType != models.DiscountPercentage && payload.DiscountType != models.DiscountFixed {
		return fiber.NewError(fiber.StatusBadRequest, "discount_type must be percentage or fixed")
	}
	if payload.TargetAudience == "" {
		payload.TargetAudience = "All"
	}
	if loyalty.ParseAudience(payload.TargetAudience).Kind == loyalty.AudienceInvalid {
		return fiber.NewError(fiber.StatusBadRequest, "unknown target audience")
	}

	payload.UsageCount = 0
	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// UpdatePromotion updates an existing promotion.
func (h *PromotionHandler) UpdatePromotion(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var promo models.Promotion
	if err := h.db.First(&promo, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "promotion not found")
		}
		return err
	}

	var payload models.Promotion
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if payload.TargetAudience != "" &&
		loyalty.ParseAudience(payload.TargetAudience).Kind == loyalty.AudienceInvalid {
		return fiber.NewError(fiber.StatusBadRequest, "unknown target audience")
	}

	payload.ID = promo.ID
	payload.UsageCount = promo.UsageCount
	if err := h.db.Model(&promo).Updates(payload).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": promo})
}

// DeletePromotion removes a promotion by ID.
func (h *PromotionHandler) DeletePromotion(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.Promotion{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ClaimPromotion claims a promotion for the current user. Claiming a
// promotion twice succeeds without changing anything; the response
// flags it so the client can message it differently.
func (h *PromotionHandler) ClaimPromotion(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	promoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	var claim *models.PromotionClaim
	alreadyClaimed := false

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var promo models.Promotion
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&promo, "id = ?", promoID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusNotFound, "promotion not found")
			}
			return err
		}

		if !promo.ExpiresAt.After(time.Now()) {
			return fiber.NewError(fiber.StatusBadRequest, "promotion has expired")
		}
		if !loyalty.Eligible(promo.TargetAudience, &user, time.Now()) {
			return loyalty.ErrIneligibleAudience
		}

		var existing models.PromotionClaim
		claimErr := tx.Where("user_id = ? AND promotion_id = ?", userID, promoID).
			First(&existing).Error
		if claimErr != nil && claimErr != gorm.ErrRecordNotFound {
			return claimErr
		}

		ledger := loyalty.NewLedger(gormStore{tx: tx})
		created, claimErr := ledger.ClaimPromotion(&user, &promo, claimErr == nil)
		if errors.Is(claimErr, loyalty.ErrAlreadyClaimed) {
			alreadyClaimed = true
			claim = &existing
			return nil
		}
		claim = created
		return claimErr
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe
		}
		return loyaltyError(err)
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"data":            claim,
		"already_claimed": alreadyClaimed,
	})
}

// Redeemable voucher catalog

// ListVouchers returns the voucher catalog. When called by an
// authenticated user each entry is annotated with eligibility and
// affordability.
func (h *PromotionHandler) ListVouchers(c *fiber.Ctx) error {
	var vouchers []models.RedeemableVoucher
	if err := h.db.Where("is_active = ?", true).
		Order("points_required asc").
		Find(&vouchers).Error; err != nil {
		return err
	}

	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return c.JSON(fiber.Map{"success": true, "data": vouchers})
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}
	var wallet models.Wallet
	if err := h.db.First(&wallet, "user_id = ?", userID).Error; err != nil {
		return err
	}

	now := time.Now()
	data := make([]fiber.Map, len(vouchers))
	for i, v := range vouchers {
		data[i] = fiber.Map{
			"voucher":    v,
			"eligible":   loyalty.Eligible(v.TargetAudience, &user, now),
			"affordable": wallet.Points >= v.PointsRequired,
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": data})
}

// CreateVoucher persists a new redeemable voucher catalog entry.
func (h *PromotionHandler) CreateVoucher(c *fiber.Ctx) error {
	var payload models.RedeemableVoucher
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if payload.PointsRequired < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "points_required must not be negative")
	}
	if payload.TargetAudience == "" {
		payload.TargetAudience = "All"
	}
	if loyalty.ParseAudience(payload.TargetAudience).Kind == loyalty.AudienceInvalid {
		return fiber.NewError(fiber.StatusBadRequest, "unknown target audience")
	}

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// UpdateVoucher updates a voucher catalog entry.
func (h *PromotionHandler) UpdateVoucher(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var voucher models.RedeemableVoucher
	if err := h.db.First(&voucher, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "voucher not found")
		}
		return err
	}

	var payload models.RedeemableVoucher
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if payload.TargetAudience != "" &&
		loyalty.ParseAudience(payload.TargetAudience).Kind == loyalty.AudienceInvalid {
		return fiber.NewError(fiber.StatusBadRequest, "unknown target audience")
	}

	payload.ID = voucher.ID
	if err := h.db.Model(&voucher).Updates(payload).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": voucher})
}

// DeleteVoucher removes a voucher catalog entry by ID.
func (h *PromotionHandler) DeleteVoucher(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.RedeemableVoucher{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RedeemVoucher exchanges wallet points for a personal voucher. The
// debit and the mint happen in one transaction; the wallet row is
// locked so concurrent redemptions cannot overdraw it.
func (h *PromotionHandler) RedeemVoucher(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	voucherID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var minted *models.UserVoucher
	var balance int

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		var catalog models.RedeemableVoucher
		if err := tx.First(&catalog, "id = ? AND is_active = ?", voucherID, true).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusNotFound, "voucher not found")
			}
			return err
		}

		var wallet models.Wallet
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&wallet, "user_id = ?", userID).Error; err != nil {
			return err
		}

		ledger := loyalty.NewLedger(gormStore{tx: tx})
		minted, err = ledger.RedeemVoucher(&user, &wallet, &catalog)
		if err != nil {
			return err
		}
		balance = wallet.Points
		return nil
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe
		}
		return loyaltyError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    minted,
		"points":  balance,
	})
}
