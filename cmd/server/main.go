package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/lotus/internal/config"
	"github.com/example/lotus/internal/database"
	"github.com/example/lotus/internal/routes"
	"github.com/example/lotus/internal/scheduler"
	"github.com/example/lotus/internal/services"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	app := fiber.New(fiber.Config{
		AppName: "Lotus Spa Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, cfg)

	if cfg.SchedulerEnabled {
		telegram := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
		jobs, err := scheduler.New(db, telegram)
		if err != nil {
			log.Fatalf("scheduler init failed: %v", err)
		}
		jobs.Start()
		defer jobs.Stop()
	}

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
