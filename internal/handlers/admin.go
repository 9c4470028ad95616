// admin.go
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

package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/complianceguard/regdash/internal/config"
	"github.com/complianceguard/regdash/internal/emaillog"
	"github.com/complianceguard/regdash/internal/mailer"
	"github.com/complianceguard/regdash/internal/services"
	"github.com/complianceguard/regdash/internal/types"
	"github.com/complianceguard/regdash/internal/utils"
)

// AdminHandler handles the operational trigger routes
type AdminHandler struct {
	Cfg      *config.Config
	Store    *services.ExcelStore
	Analyzer *services.Analyzer
	Mailer   *mailer.Mailer
	EmailLog *emaillog.Log
}

// monthlyAnalysisRequest is the POST /api/admin/monthly-analysis body.
type monthlyAnalysisRequest struct {
	Departments types.FlexList[string] `json:"departments"`
}

// testEmailRequest is the POST /api/admin/test-email body.
type testEmailRequest struct {
	Email string `json:"email"`
}

// SyncData handles POST /api/admin/sync
// @Summary Re-read the regulation workbook
// @Description Drops the in-memory cache and reloads the workbook from disk
// @Tags Admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/sync [post]
func (h *AdminHandler) SyncData(c *fiber.Ctx) error {
	h.Store.Invalidate()
	regs, err := h.Store.LoadAll()
	if err != nil {
		return storeError(c, err, "syncData")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":     true,
		"message":     fmt.Sprintf("Reloaded %d regulations", len(regs)),
		"regulations": len(regs),
	})
}

// RunMonthlyAnalysis handles POST /api/admin/monthly-analysis
// @Summary Run the monthly analysis now
// @Description Computes per-department stats and mails each department its report. An empty body processes every department; `departments` (string or list) restricts the run.
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body handlers.monthlyAnalysisRequest false "Optional department subset"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/monthly-analysis [post]
func (h *AdminHandler) RunMonthlyAnalysis(c *fiber.Ctx) error {
	var req monthlyAnalysisRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "monthlyAnalysis")
		}
	}

	results, err := h.Analyzer.RunMonthlyAnalysis(c.Context(), req.Departments.Slice(), time.Now())
	if err != nil {
		return storeError(c, err, "monthlyAnalysis")
	}

	sent := 0
	for _, r := range results {
		if r.Sent {
			sent++
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Monthly analysis complete, %d/%d departments mailed", sent, len(results)),
		"results": results,
	})
}

// SendTestEmail handles POST /api/admin/test-email
// @Summary Send a test email
// @Description Sends a test message to the given address over whichever transport the current credentials select
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body handlers.testEmailRequest true "Recipient"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /admin/test-email [post]
func (h *AdminHandler) SendTestEmail(c *fiber.Ctx) error {
	var req testEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "testEmail")
	}
	if !mailer.ValidAddress(req.Email) {
		return utils.ErrorResponse(c, "A valid 'email' field is required", fiber.StatusBadRequest, "testEmail")
	}

	transport := h.Mailer.TransportState()
	now := time.Now()

	html, err := services.RenderTestEmail(transport, now)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "testEmail")
	}

	from := h.Cfg.SMTPUser
	if from == "" {
		from = h.Cfg.SendgridFrom
	}

	sent := h.Mailer.Send(c.Context(), mailer.Message{
		To:      req.Email,
		From:    from,
		Subject: services.TestEmailSubject,
		HTML:    html,
	})

	message := fmt.Sprintf("Test email sent to %s via %s", req.Email, transport)
	if !sent {
		message = fmt.Sprintf("Test email to %s failed, see email log", req.Email)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":   sent,
		"message":   message,
		"transport": transport,
	})
}

// GetEmailLog handles GET /api/admin/email-log
// @Summary Read the email delivery log
// @Description Returns the last lines of the append-only delivery log
// @Tags Admin
// @Produce json
// @Param lines query int false "Number of trailing lines" default(50)
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/email-log [get]
func (h *AdminHandler) GetEmailLog(c *fiber.Ctx) error {
	n := c.QueryInt("lines", 50)
	if n < 1 || n > 1000 {
		n = 50
	}

	lines, err := h.EmailLog.Tail(n)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "emailLog")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"lines":   lines,
	})
}

// ClearEmailLog handles DELETE /api/admin/email-log
// @Summary Clear the email delivery log
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/email-log [delete]
func (h *AdminHandler) ClearEmailLog(c *fiber.Ctx) error {
	if err := h.EmailLog.Clear(); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "emailLog")
	}
	return utils.MutationSuccessResponse(c, "Email log cleared")
}
