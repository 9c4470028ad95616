// main.go
//
// A single-binary Go replacement for the ComplianceGuard node/express dashboard server
// Copyright (c) 2026 ComplianceGuard contributors
//
// This file is part of regdash.
// regdash is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// regdash is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with regdash.
// If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/joho/godotenv"

	"github.com/complianceguard/regdash/internal/config"
	"github.com/complianceguard/regdash/internal/database"
	"github.com/complianceguard/regdash/internal/emaillog"
	"github.com/complianceguard/regdash/internal/handlers"
	"github.com/complianceguard/regdash/internal/mailer"
	"github.com/complianceguard/regdash/internal/middleware"
	"github.com/complianceguard/regdash/internal/services"
	"github.com/complianceguard/regdash/internal/types"
	"github.com/complianceguard/regdash/internal/utils"

	_ "github.com/complianceguard/regdash/docs/api" // Swagger docs
)

// @title ComplianceGuard RegDash API
// @version 1.0.0
// @description Legal regulation compliance dashboard: Excel-backed regulation queries, per-department progress stats, and monthly email dispatch
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/complianceguard/regdash

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey AdminKey
// @in header
// @name X-Admin-Key

func main() {
	// Load .env when present, real environment wins
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to the contact/notification store
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Shared components
	store := services.NewExcelStore(cfg.ExcelPath, cfg.CacheTTL)
	elog := emaillog.New(cfg.EmailLogPath)
	ml := mailer.New(cfg, elog)
	analyzer := &services.Analyzer{Cfg: cfg, Store: store, DB: db, Mailer: ml}

	// Warm the regulation cache; a missing workbook is not fatal at boot,
	// queries keep retrying the file.
	if regs, err := store.LoadAll(); err != nil {
		log.Printf("Regulation workbook not loaded at startup: %v", err)
	} else {
		log.Printf("Regulation workbook warm: %d rows", len(regs))
	}

	// Monthly analysis scheduler
	scheduler := &services.Scheduler{Analyzer: analyzer}
	if cfg.EnableScheduler {
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: false,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("regdash")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	// Create handlers
	regHandler := &handlers.RegulationHandler{Store: store, DB: db}
	dashHandler := &handlers.DashboardHandler{Cfg: cfg, Store: store}
	contactHandler := &handlers.ContactHandler{DB: db}
	notifHandler := &handlers.NotificationHandler{DB: db}
	adminHandler := &handlers.AdminHandler{
		Cfg:      cfg,
		Store:    store,
		Analyzer: analyzer,
		Mailer:   ml,
		EmailLog: elog,
	}

	// Regulation queries
	api.Get("/regulations", regHandler.ListRegulations)
	api.Get("/regulations/:id", regHandler.GetRegulation)
	api.Get("/departments", regHandler.ListDepartments)
	api.Get("/regulation-types", regHandler.ListRegulationTypes)

	// Dashboard aggregates
	api.Get("/dashboard/stats", dashHandler.GetStats)
	api.Get("/dashboard/department-progress", dashHandler.GetDepartmentProgress)
	api.Get("/dashboard/monthly-amendments", dashHandler.GetMonthlyAmendments)
	api.Get("/dashboard/yearly-amendments", dashHandler.GetYearlyAmendments)

	// Notification feed
	api.Get("/notifications", notifHandler.ListNotifications)
	api.Post("/notifications/:id/read", notifHandler.MarkNotificationRead)

	// Department contact registry
	api.Get("/contacts", contactHandler.ListContacts)
	api.Post("/contacts", contactHandler.CreateContact)
	api.Put("/contacts/:code", contactHandler.UpdateContact)
	api.Delete("/contacts/:code", contactHandler.DeleteContact)

	// Operational triggers
	admin := api.Group("/admin", middleware.AdminKey(cfg.AdminAPIKey))
	admin.Post("/sync", adminHandler.SyncData)
	admin.Post("/monthly-analysis", adminHandler.RunMonthlyAnalysis)
	admin.Post("/test-email", adminHandler.SendTestEmail)
	admin.Get("/email-log", adminHandler.GetEmailLog)
	admin.Delete("/email-log", adminHandler.ClearEmailLog)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		result := services.HealthCheck(cfg, db, ml)
		status := fiber.StatusOK
		if result.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(result)
	})

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		scheduler.Stop()
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Custom errors carry their own status and type
	if e, ok := err.(*types.CustomError); ok {
		code = e.Code
		message = e.Message
		errorType = e.Type
	}

	return utils.ErrorResponse(c, message, code, errorType)
}
