// e2e_test.go
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

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"

	_ "github.com/complianceguard/regdash/docs/api"
	"github.com/complianceguard/regdash/internal/config"
	"github.com/complianceguard/regdash/internal/emaillog"
	"github.com/complianceguard/regdash/internal/handlers"
	"github.com/complianceguard/regdash/internal/mailer"
	"github.com/complianceguard/regdash/internal/middleware"
	"github.com/complianceguard/regdash/internal/models"
	"github.com/complianceguard/regdash/internal/services"
	"github.com/complianceguard/regdash/internal/types"
	"github.com/complianceguard/regdash/internal/utils"
	"github.com/complianceguard/regdash/tests/helpers"
)

// Shared across test apps, the collectors may only register once.
var prometheus = fiberprometheus.New("regdash")

// buildApp wires the full service the way cmd/server does, over an
// in-memory database and a temp-dir workbook.
func buildApp(t *testing.T, adminKey string) (*fiber.App, *config.Config, *gorm.DB) {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		// Dates pinned to the live clock, the dispatch path filters on it.
		ExcelPath:           helpers.SampleWorkbookAt(t, dir, time.Now()),
		CacheTTL:            5 * time.Minute,
		EmailLogPath:        filepath.Join(dir, "logging.txt"),
		AdminAPIKey:         adminKey,
		PriorityDepartments: []string{"환경기획그룹"},
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&models.DepartmentContact{}, &models.Notification{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	store := services.NewExcelStore(cfg.ExcelPath, cfg.CacheTTL)
	elog := emaillog.New(cfg.EmailLogPath)
	ml := mailer.New(cfg, elog)
	analyzer := &services.Analyzer{Cfg: cfg, Store: store, DB: db, Mailer: ml}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return utils.ErrorResponse(c, e.Message, e.Code, "fiber")
			}
			if e, ok := err.(*types.CustomError); ok {
				return utils.ErrorResponse(c, e.Message, e.Code, e.Type)
			}
			return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "unknown")
		},
	})
	app.Use(recover.New())
	app.Use(compress.New())

	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	app.Get("/swagger/*", swagger.HandlerDefault)

	regulationHandler := &handlers.RegulationHandler{Store: store, DB: db}
	dashboardHandler := &handlers.DashboardHandler{Cfg: cfg, Store: store}
	contactHandler := &handlers.ContactHandler{DB: db}
	notifHandler := &handlers.NotificationHandler{DB: db}
	adminHandler := &handlers.AdminHandler{
		Cfg: cfg, Store: store, Analyzer: analyzer, Mailer: ml, EmailLog: elog,
	}

	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())
	api.Get("/regulations", regulationHandler.ListRegulations)
	api.Get("/regulations/:id", regulationHandler.GetRegulation)
	api.Get("/departments", regulationHandler.ListDepartments)
	api.Get("/regulation-types", regulationHandler.ListRegulationTypes)
	api.Get("/dashboard/stats", dashboardHandler.GetStats)
	api.Get("/dashboard/department-progress", dashboardHandler.GetDepartmentProgress)
	api.Get("/notifications", notifHandler.ListNotifications)
	api.Post("/notifications/:id/read", notifHandler.MarkNotificationRead)
	api.Get("/contacts", contactHandler.ListContacts)
	api.Post("/contacts", contactHandler.CreateContact)

	admin := api.Group("/admin", middleware.AdminKey(cfg.AdminAPIKey))
	admin.Post("/sync", adminHandler.SyncData)
	admin.Post("/monthly-analysis", adminHandler.RunMonthlyAnalysis)
	admin.Get("/email-log", adminHandler.GetEmailLog)

	app.Get("/health", func(c *fiber.Ctx) error {
		result := services.HealthCheck(cfg, db, ml)
		status := fiber.StatusOK
		if result.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(result)
	})

	return app, cfg, db
}

// TestE2EFullStack walks the operator workflow end to end
func TestE2EFullStack(t *testing.T) {
	app, _, db := buildApp(t, "")

	t.Run("HealthCheck", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/health", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to get health: %v", err)
		}
		helpers.AssertStatus(t, resp, 200)

		var result services.HealthCheckResult
		helpers.ParseJSON(t, resp, &result)
		if result.Status != "healthy" {
			t.Errorf("Health check failed: %+v", result)
		}
		if result.Mailer != mailer.TransportDemo {
			t.Errorf("Expected demo transport, got %s", result.Mailer)
		}
	})

	t.Run("PrometheusMetrics", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/metrics", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to get metrics: %v", err)
		}
		helpers.AssertStatus(t, resp, 200)

		body, _ := io.ReadAll(resp.Body)
		if len(body) == 0 {
			t.Error("Expected metrics output")
		}
	})

	t.Run("SwaggerDoc", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/swagger/doc.json", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to get swagger doc: %v", err)
		}
		helpers.AssertStatus(t, resp, 200)

		var doc map[string]interface{}
		if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
			t.Fatalf("Swagger doc is not valid JSON: %v", err)
		}
		if doc["paths"] == nil {
			t.Error("Expected paths in swagger doc")
		}
	})

	t.Run("RegulationWorkflow", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/regulations", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to list regulations: %v", err)
		}
		helpers.AssertStatus(t, resp, 200)
		if got := resp.Header.Get("X-Api-Version"); got == "" {
			t.Error("Expected X-Api-Version header")
		}

		var regs []models.Regulation
		helpers.ParseJSON(t, resp, &regs)
		if len(regs) != 5 {
			t.Fatalf("Expected 5 regulations, got %d", len(regs))
		}

		req = httptest.NewRequest("GET", "/api/dashboard/stats", nil)
		resp, _ = app.Test(req)
		helpers.AssertStatus(t, resp, 200)

		var stats models.DashboardStats
		helpers.ParseJSON(t, resp, &stats)
		if stats.TotalRegulations != 5 {
			t.Errorf("Expected 5 total regulations, got %d", stats.TotalRegulations)
		}
	})

	t.Run("AnalysisWorkflow", func(t *testing.T) {
		// Register a contact so one department has a mail target
		body, _ := json.Marshal(models.DepartmentContact{
			Name: "환경기획그룹", Code: "ENV",
			ContactName: "이환경", ContactEmail: "env@company.com",
		})
		req := httptest.NewRequest("POST", "/api/contacts", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to create contact: %v", err)
		}
		helpers.AssertStatus(t, resp, 200)

		// Trigger the monthly run over every department
		req = httptest.NewRequest("POST", "/api/admin/monthly-analysis", nil)
		resp, _ = app.Test(req, 30000)
		helpers.AssertStatus(t, resp, 200)

		var result struct {
			Success bool                    `json:"success"`
			Results []models.DispatchResult `json:"results"`
		}
		helpers.ParseJSON(t, resp, &result)
		if !result.Success || len(result.Results) == 0 {
			t.Fatalf("Unexpected analysis result: %+v", result)
		}

		// The registered department has a regulation due this month and
		// must actually dispatch, whatever the calendar says today.
		var env *models.DispatchResult
		for i := range result.Results {
			if result.Results[i].Department == "환경기획그룹" {
				env = &result.Results[i]
			}
		}
		if env == nil {
			t.Fatalf("Expected a result for 환경기획그룹, got %+v", result.Results)
		}
		if !env.Sent || env.Regulations != 1 {
			t.Errorf("Expected 환경기획그룹 sent with 1 regulation, got %+v", env)
		}

		// The run leaves a completion notification behind
		list, err := services.ListNotifications(db, 10)
		if err != nil {
			t.Fatalf("Failed to list notifications: %v", err)
		}
		if len(list) != 1 {
			t.Errorf("Expected 1 notification after the run, got %d", len(list))
		}

		// The email log records the demo sends
		req = httptest.NewRequest("GET", "/api/admin/email-log", nil)
		resp, _ = app.Test(req)
		helpers.AssertStatus(t, resp, 200)

		var logResult struct {
			Success bool     `json:"success"`
			Lines   []string `json:"lines"`
		}
		helpers.ParseJSON(t, resp, &logResult)
		if len(logResult.Lines) == 0 {
			t.Error("Expected email log entries after the run")
		}
		joined := strings.Join(logResult.Lines, "\n")
		if !strings.Contains(joined, "Transport: demo") {
			t.Errorf("Expected demo transport in the log, got:\n%s", joined)
		}
	})

	t.Run("NotFoundEnvelope", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/regulations/does-not-exist", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to execute request: %v", err)
		}
		helpers.AssertErrorEnvelope(t, resp, 404)
	})
}

// TestE2EAdminKeyGuard tests the guarded admin surface end to end
func TestE2EAdminKeyGuard(t *testing.T) {
	app, _, _ := buildApp(t, "e2e-secret")

	req := httptest.NewRequest("POST", "/api/admin/sync", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	helpers.AssertErrorEnvelope(t, resp, 403)

	req = httptest.NewRequest("POST", "/api/admin/sync", nil)
	req.Header.Set("X-Admin-Key", "e2e-secret")
	resp, _ = app.Test(req)
	helpers.AssertStatus(t, resp, 200)
}
