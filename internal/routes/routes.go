package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/lotus/internal/config"
	"github.com/example/lotus/internal/handlers"
	"github.com/example/lotus/internal/middleware"
	"github.com/example/lotus/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)

	authHandler := handlers.NewAuthHandler(db, cfg)
	catalogHandler := handlers.NewCatalogHandler(db)
	promotionHandler := handlers.NewPromotionHandler(db)
	wheelHandler := handlers.NewWheelHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(db, cfg, telegramService)
	profileHandler := handlers.NewProfileHandler(db)
	reportHandler := handlers.NewReportHandler(db)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	requireAuth := middleware.AuthMiddleware(cfg)
	requireAdmin := middleware.RequireAdmin()
	requireStaff := middleware.RequireStaff()

	// Catalog routes (public reads, admin mutations)
	categories := api.Group("/categories")
	categories.Get("/", catalogHandler.ListCategories)
	categories.Get("/:id", catalogHandler.GetCategory)
	categories.Post("/", requireAuth, requireAdmin, catalogHandler.CreateCategory)
	categories.Put("/:id", requireAuth, requireAdmin, catalogHandler.UpdateCategory)
	categories.Delete("/:id", requireAuth, requireAdmin, catalogHandler.DeleteCategory)

	servicesGroup := api.Group("/services")
	servicesGroup.Get("/", catalogHandler.ListServices)
	servicesGroup.Get("/:id", catalogHandler.GetService)
	servicesGroup.Post("/", requireAuth, requireAdmin, catalogHandler.CreateService)
	servicesGroup.Put("/:id", requireAuth, requireAdmin, catalogHandler.UpdateService)
	servicesGroup.Delete("/:id", requireAuth, requireAdmin, catalogHandler.DeleteService)

	tiers := api.Group("/tiers")
	tiers.Get("/", catalogHandler.ListTiers)
	tiers.Post("/", requireAuth, requireAdmin, catalogHandler.CreateTier)
	tiers.Put("/:id", requireAuth, requireAdmin, catalogHandler.UpdateTier)
	tiers.Delete("/:id", requireAuth, requireAdmin, catalogHandler.DeleteTier)

	staff := api.Group("/staff")
	staff.Get("/", catalogHandler.ListStaff)
	staff.Post("/", requireAuth, requireAdmin, catalogHandler.CreateStaff)
	staff.Put("/:id", requireAuth, requireAdmin, catalogHandler.UpdateStaff)
	staff.Delete("/:id", requireAuth, requireAdmin, catalogHandler.DeleteStaff)

	// Promotions
	promotions := api.Group("/promotions")
	promotions.Get("/", requireAuth, requireAdmin, promotionHandler.ListPromotions)
	promotions.Get("/available", requireAuth, promotionHandler.AvailablePromotions)
	promotions.Post("/", requireAuth, requireAdmin, promotionHandler.CreatePromotion)
	promotions.Put("/:id", requireAuth, requireAdmin, promotionHandler.UpdatePromotion)
	promotions.Delete("/:id", requireAuth, requireAdmin, promotionHandler.DeletePromotion)
	promotions.Post("/:id/claim", requireAuth, promotionHandler.ClaimPromotion)

	// Redeemable voucher catalog
	vouchers := api.Group("/vouchers")
	vouchers.Get("/", requireAuth, promotionHandler.ListVouchers)
	vouchers.Post("/", requireAuth, requireAdmin, promotionHandler.CreateVoucher)
	vouchers.Put("/:id", requireAuth, requireAdmin, promotionHandler.UpdateVoucher)
	vouchers.Delete("/:id", requireAuth, requireAdmin, promotionHandler.DeleteVoucher)
	vouchers.Post("/:id/redeem", requireAuth, promotionHandler.RedeemVoucher)

	// Lucky wheel
	wheel := api.Group("/wheel")
	wheel.Get("/prizes", wheelHandler.ListPrizes)
	wheel.Post("/prizes", requireAuth, requireAdmin, wheelHandler.CreatePrize)
	wheel.Put("/prizes/:id", requireAuth, requireAdmin, wheelHandler.UpdatePrize)
	wheel.Delete("/prizes/:id", requireAuth, requireAdmin, wheelHandler.DeletePrize)
	wheel.Post("/spin", requireAuth, wheelHandler.Spin)

	// Protected routes
	protected := api.Group("", requireAuth)

	protected.Post("/appointments", appointmentHandler.CreateAppointment)
	protected.Get("/appointments", appointmentHandler.ListAppointments)
	protected.Get("/appointments/:id", appointmentHandler.GetAppointment)
	protected.Put("/appointments/:id/status", requireStaff, appointmentHandler.UpdateAppointmentStatus)

	protected.Post("/payments", requireStaff, appointmentHandler.CreatePayment)
	protected.Get("/payments", appointmentHandler.ListPayments)
	protected.Post("/payments/:id/complete", requireStaff, appointmentHandler.CompletePayment)

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)
	protected.Get("/profile/wallet", profileHandler.GetWallet)
	protected.Get("/profile/vouchers", profileHandler.ListMyVouchers)
	protected.Get("/profile/claims", profileHandler.ListMyClaims)

	reports := api.Group("/reports", requireAuth, requireAdmin)
	reports.Get("/dashboard", reportHandler.DashboardStats)
	reports.Get("/staff-performance", reportHandler.StaffPerformance)
}
