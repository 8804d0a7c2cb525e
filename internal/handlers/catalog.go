package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/example/lotus/internal/loyalty"
	"github.com/example/lotus/internal/models"
	"github.com/example/lotus/internal/utils"
)

// CatalogHandler manages service categories, services, tiers and staff.
type CatalogHandler struct {
	db *gorm.DB
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// Categories

// ListCategories returns paginated service categories.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	var categories []models.ServiceCategory
	var total int64

	if err := h.db.Model(&models.ServiceCategory{}).Count(&total).Error; err != nil {
		return err
	}

	if err := h.db.Limit(pg.Limit).Offset(pg.Offset).Order("created_at desc").
		Find(&categories).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       categories,
		"pagination": pg.Envelope(total),
	})
}

// GetCategory returns a single category with its services.
func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var category models.ServiceCategory
	if err := h.db.Preload("Services").First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": category})
}

// CreateCategory persists a new category.
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var payload models.ServiceCategory
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if payload.Slug == "" {
		payload.Slug = slug.Make(payload.Name)
	}

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// UpdateCategory updates an existing category.
func (h *CatalogHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var category models.ServiceCategory
	if err := h.db.First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return err
	}

	var payload models.ServiceCategory
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	payload.ID = category.ID
	if payload.Name != "" && payload.Slug == "" {
		payload.Slug = slug.Make(payload.Name)
	}
	if err := h.db.Model(&category).Updates(payload).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": category})
}

// DeleteCategory removes a category by ID.
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.ServiceCategory{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Services

// ListServices returns paginated services, optionally filtered by
// category and active state.
func (h *CatalogHandler) ListServices(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Service{})

	if categoryID := c.Query("category_id"); categoryID != "" {
		if id, err := uuid.Parse(categoryID); err == nil {
			query = query.Where("category_id = ?", id)
		}
	}
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var services []models.Service
	if err := query.Preload("Category").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&services).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       services,
		"pagination": pg.Envelope(total),
	})
}

// GetService returns a single service by ID.
func (h *CatalogHandler) GetService(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var service models.Service
	if err := h.db.Preload("Category").First(&service, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "service not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": service})
}

// CreateService persists a new service.
func (h *CatalogHandler) CreateService(c *fiber.Ctx) error {
	var payload models.Service
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if payload.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	if payload.Slug == "" {
		payload.Slug = slug.Make(payload.Name)
	}

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// UpdateService updates an existing service.
func (h *CatalogHandler) UpdateService(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var service models.Service
	if err := h.db.First(&service, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "service not found")
		}
		return err
	}

	var payload models.Service
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	payload.ID = service.ID
	if payload.Name != "" && payload.Slug == "" {
		payload.Slug = slug.Make(payload.Name)
	}
	if err := h.db.Model(&service).Updates(payload).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": service})
}

// DeleteService removes a service by ID.
func (h *CatalogHandler) DeleteService(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.Service{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Tiers

// ListTiers returns the tier ladder ordered by level.
func (h *CatalogHandler) ListTiers(c *fiber.Ctx) error {
	var tiers []models.Tier
	if err := h.db.Order("level asc").Find(&tiers).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": tiers})
}

// CreateTier persists a new tier after checking threshold ordering
// across the whole ladder.
func (h *CatalogHandler) CreateTier(c *fiber.Ctx) error {
	var payload models.Tier
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var tiers []models.Tier
	if err := h.db.Find(&tiers).Error; err != nil {
		return err
	}
	if err := loyalty.ValidateTierOrder(append(tiers, payload)); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// UpdateTier updates a tier, re-validating the ladder.
func (h *CatalogHandler) UpdateTier(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var tier models.Tier
	if err := h.db.First(&tier, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "tier not found")
		}
		return err
	}

	var payload models.Tier
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	payload.ID = tier.ID
	if payload.Level == 0 {
		payload.Level = tier.Level
	}

	var others []models.Tier
	if err := h.db.Where("id <> ?", tier.ID).Find(&others).Error; err != nil {
		return err
	}
	candidate := tier
	candidate.Level = payload.Level
	if payload.PointsThreshold != 0 {
		candidate.PointsThreshold = payload.PointsThreshold
	}
	if payload.SpendingThreshold != 0 {
		candidate.SpendingThreshold = payload.SpendingThreshold
	}
	if err := loyalty.ValidateTierOrder(append(others, candidate)); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := h.db.Model(&tier).Updates(payload).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": tier})
}

// DeleteTier removes a tier by ID.
func (h *CatalogHandler) DeleteTier(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.Tier{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Staff

// ListStaff returns paginated staff profiles.
func (h *CatalogHandler) ListStaff(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Staff{})

	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var staff []models.Staff
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&staff).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       staff,
		"pagination": pg.Envelope(total),
	})
}

// CreateStaff persists a new staff profile.
func (h *CatalogHandler) CreateStaff(c *fiber.Ctx) error {
	var payload models.Staff
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// UpdateStaff updates an existing staff profile.
func (h *CatalogHandler) UpdateStaff(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var staff models.Staff
	if err := h.db.First(&staff, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "staff not found")
		}
		return err
	}

	var payload models.Staff
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	payload.ID = staff.ID
	if err := h.db.Model(&staff).Updates(payload).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": staff})
}

// DeleteStaff removes a staff profile by ID.
func (h *CatalogHandler) DeleteStaff(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.Staff{}, "id = ?", id).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
