package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/lotus/internal/models"
)

// ReportHandler serves admin dashboards and staff performance reports.
type ReportHandler struct {
	db *gorm.DB
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{db: db}
}

// DashboardStats returns aggregate statistics for the admin dashboard.
func (h *ReportHandler) DashboardStats(c *fiber.Ctx) error {
	var totalUsers int64
	if err := h.db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	var totalAppointments int64
	if err := h.db.Model(&models.Appointment{}).Count(&totalAppointments).Error; err != nil {
		return err
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var statusCounts []statusCount
	if err := h.db.Model(&models.Appointment{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return err
	}

	appointmentsByStatus := make(map[string]int64)
	for _, sc := range statusCounts {
		appointmentsByStatus[sc.Status] = sc.Count
	}

	var totalRevenue float64
	if err := h.db.Model(&models.Payment{}).
		Where("status = ?", models.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return err
	}

	var todayRevenue float64
	if err := h.db.Model(&models.Payment{}).
		Where("status = ? AND paid_at::date = CURRENT_DATE", models.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&todayRevenue).Error; err != nil {
		return err
	}

	var activePromotions int64
	if err := h.db.Model(&models.Promotion{}).
		Where("expires_at > ?", time.Now()).
		Count(&activePromotions).Error; err != nil {
		return err
	}

	var redemptions int64
	if err := h.db.Model(&models.UserVoucher{}).Count(&redemptions).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_users":            totalUsers,
			"total_appointments":     totalAppointments,
			"total_revenue":          totalRevenue,
			"today_revenue":          todayRevenue,
			"active_promotions":      activePromotions,
			"voucher_redemptions":    redemptions,
			"appointments_by_status": appointmentsByStatus,
		},
	})
}

// StaffPerformance aggregates completed appointments per staff member
// over a period: appointment count, revenue and distinct clients.
func (h *ReportHandler) StaffPerformance(c *fiber.Ctx) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return err
	}

	type staffRow struct {
		StaffID         string  `json:"staff_id"`
		Appointments    int64   `json:"appointments"`
		Revenue         float64 `json:"revenue"`
		DistinctClients int64   `json:"distinct_clients"`
	}

	var rows []staffRow
	if err := h.db.Model(&models.Appointment{}).
		Select("staff_id, count(*) as appointments, COALESCE(SUM(price), 0) as revenue, count(distinct user_id) as distinct_clients").
		Where("status = ? AND staff_id IS NOT NULL AND scheduled_at BETWEEN ? AND ?",
			models.AppointmentCompleted, from, to).
		Group("staff_id").
		Order("revenue desc").
		Scan(&rows).Error; err != nil {
		return err
	}

	var staff []models.Staff
	if err := h.db.Find(&staff).Error; err != nil {
		return err
	}
	names := make(map[string]string, len(staff))
	for _, s := range staff {
		names[s.ID.String()] = s.Name
	}

	type performance struct {
		staffRow
		StaffName string `json:"staff_name"`
	}
	result := make([]performance, len(rows))
	for i, r := range rows {
		result[i] = performance{staffRow: r, StaffName: names[r.StaffID]}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
		"period":  fiber.Map{"from": from, "to": to},
	})
}

// parsePeriod reads from/to query params, defaulting to the last 30 days.
func parsePeriod(c *fiber.Ctx) (time.Time, time.Time, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "invalid from date")
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "invalid to date")
		}
		to = parsed.Add(24*time.Hour - time.Second)
	}

	return from, to, nil
}
