package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"realty-dashboard/internal/app"
	"realty-dashboard/internal/config"
	"realty-dashboard/internal/handler"
	"realty-dashboard/internal/report"
	"realty-dashboard/internal/scheduler"
	"realty-dashboard/internal/ws"
	"realty-dashboard/pkg/database"
	"realty-dashboard/pkg/jwt"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := cfg.NewLogger()
	jwt.Configure(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLHours)*time.Hour)

	// 2. Setup Database
	db, err := database.Connect(cfg)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	// 3. Setup WebSocket Hub
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := ws.NewHub(log)
	go hub.Run(ctx)

	// 4. Dependency Injection (Wiring Layers)
	renderer := report.NewChromeRenderer(cfg.Report.ChromeBin, cfg.Report.ExportTimeout, log)
	a, err := app.New(cfg, db, log, hub, renderer)
	if err != nil {
		log.WithError(err).Fatal("wiring failed")
	}

	// 5. Seed default privileges, roles, and admin user
	if err := a.Seeder().Seed(cfg.Seed.AdminEmail, cfg.Seed.AdminPassword); err != nil {
		log.WithError(err).Warn("seeding failed")
	}

	// 6. Periodic stats refresh; dashboards reload when it lands
	refresher := scheduler.NewRefresher(a.StatsService.RefreshAll, func() {
		hub.Publish(ws.EventDashboardRefresh, nil, nil)
	}, cfg.Stats.RefreshInterval, log)
	refresher.Start()

	// 7. Setup Fiber
	server := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})
	server.Use(logger.New())  // Logging request
	server.Use(recover.New()) // Panic recovery
	server.Use(cors.New())    // CORS

	handler.Register(server, a.Handlers(hub))

	// 8. Graceful Shutdown
	go func() {
		if err := server.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Panic("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	refresher.Stop()
	if err := server.Shutdown(); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	cancel()

	log.Info("Server exited")
}
