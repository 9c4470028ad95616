// dashboard.go
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
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/complianceguard/regdash/internal/config"
	"github.com/complianceguard/regdash/internal/services"
)

// DashboardHandler serves the aggregate views the dashboard pages render.
type DashboardHandler struct {
	Cfg   *config.Config
	Store *services.ExcelStore
}

// GetStats handles GET /api/dashboard/stats
// @Summary Dashboard headline stats
// @Description Totals across the regulation set: regulations, departments, risk items, and this year's amendments
// @Tags Dashboard
// @Produce json
// @Success 200 {object} models.DashboardStats
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	regs, err := h.Store.LoadAll()
	if err != nil {
		return storeError(c, err, "dashboardStats")
	}
	departments, err := h.Store.Departments()
	if err != nil {
		return storeError(c, err, "dashboardStats")
	}

	stats := services.ComputeDashboardStats(regs, departments, time.Now())
	return c.Status(fiber.StatusOK).JSON(stats)
}

// GetDepartmentProgress handles GET /api/dashboard/department-progress
// @Summary Per-department progress
// @Description Per-department amendment workload and completion percentage for the current year
// @Tags Dashboard
// @Produce json
// @Success 200 {array} models.DepartmentStat
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /dashboard/department-progress [get]
func (h *DashboardHandler) GetDepartmentProgress(c *fiber.Ctx) error {
	regs, err := h.Store.LoadAll()
	if err != nil {
		return storeError(c, err, "departmentProgress")
	}

	stats := services.ComputeDepartmentStats(regs, time.Now(), h.Cfg.PriorityDepartments)
	return c.Status(fiber.StatusOK).JSON(stats)
}

// GetMonthlyAmendments handles GET /api/dashboard/monthly-amendments
// @Summary Amendments effective this month
// @Tags Dashboard
// @Produce json
// @Success 200 {array} models.AmendmentSummaryItem
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /dashboard/monthly-amendments [get]
func (h *DashboardHandler) GetMonthlyAmendments(c *fiber.Ctx) error {
	regs, err := h.Store.LoadAll()
	if err != nil {
		return storeError(c, err, "monthlyAmendments")
	}
	return c.Status(fiber.StatusOK).JSON(services.MonthlyAmendments(regs, time.Now()))
}

// GetYearlyAmendments handles GET /api/dashboard/yearly-amendments
// @Summary Amendments effective this year
// @Tags Dashboard
// @Produce json
// @Success 200 {array} models.AmendmentSummaryItem
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /dashboard/yearly-amendments [get]
func (h *DashboardHandler) GetYearlyAmendments(c *fiber.Ctx) error {
	regs, err := h.Store.LoadAll()
	if err != nil {
		return storeError(c, err, "yearlyAmendments")
	}
	return c.Status(fiber.StatusOK).JSON(services.YearlyAmendments(regs, time.Now()))
}
