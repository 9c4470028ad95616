// regulations.go
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

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/complianceguard/regdash/internal/models"
	"github.com/complianceguard/regdash/internal/services"
	"github.com/complianceguard/regdash/internal/utils"
)

// RegulationHandler handles regulation query routes
type RegulationHandler struct {
	Store *services.ExcelStore
	DB    *gorm.DB
}

// ListRegulations handles GET /api/regulations
// @Summary List regulations
// @Description List all regulations, optionally filtered by search term, department, or law type
// @Tags Regulations
// @Produce json
// @Param search query string false "Search across name, abbreviation, ministry, department, and AI summary"
// @Param department query string false "Filter by department name (substring match)"
// @Param type query string false "Filter by law type (substring match)"
// @Success 200 {array} models.Regulation
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /regulations [get]
func (h *RegulationHandler) ListRegulations(c *fiber.Ctx) error {
	var (
		regs []models.Regulation
		err  error
	)

	// Filter precedence: search, then department, then type
	switch {
	case c.Query("search") != "":
		regs, err = h.Store.Search(c.Query("search"))
	case c.Query("department") != "":
		regs, err = h.Store.ByDepartment(c.Query("department"))
	case c.Query("type") != "":
		regs, err = h.Store.ByType(c.Query("type"))
	default:
		regs, err = h.Store.LoadAll()
	}
	if err != nil {
		return storeError(c, err, "listRegulations")
	}

	return c.Status(fiber.StatusOK).JSON(regs)
}

// GetRegulation handles GET /api/regulations/:id
// @Summary Get a regulation
// @Description Get a single regulation by its sequence number
// @Tags Regulations
// @Produce json
// @Param id path string true "Regulation sequence number"
// @Success 200 {object} models.Regulation
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /regulations/{id} [get]
func (h *RegulationHandler) GetRegulation(c *fiber.Ctx) error {
	id := c.Params("id")

	reg, err := h.Store.ByID(id)
	if err != nil {
		return storeError(c, err, "getRegulation")
	}
	if reg == nil {
		return utils.NotFoundResponse(c, fmt.Sprintf("Regulation '%s' not found", id))
	}

	return c.Status(fiber.StatusOK).JSON(reg)
}

// ListDepartments handles GET /api/departments
// @Summary List departments
// @Description List distinct departments found in the regulation data, with registry codes where available
// @Tags Regulations
// @Produce json
// @Success 200 {array} handlers.DepartmentRef
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /departments [get]
func (h *RegulationHandler) ListDepartments(c *fiber.Ctx) error {
	names, err := h.Store.Departments()
	if err != nil {
		return storeError(c, err, "listDepartments")
	}

	// A registered contact contributes its short code; otherwise the
	// department name doubles as its code.
	codeByName := make(map[string]string)
	if contacts, err := services.ListContacts(h.DB); err == nil {
		for _, contact := range contacts {
			codeByName[contact.Name] = contact.Code
		}
	}

	out := make([]DepartmentRef, 0, len(names))
	for _, name := range names {
		code := name
		if c, ok := codeByName[name]; ok && c != "" {
			code = c
		}
		out = append(out, DepartmentRef{Name: name, Code: code})
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

// ListRegulationTypes handles GET /api/regulation-types
// @Summary List regulation types
// @Description List distinct law types found in the regulation data
// @Tags Regulations
// @Produce json
// @Success 200 {array} string
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /regulation-types [get]
func (h *RegulationHandler) ListRegulationTypes(c *fiber.Ctx) error {
	types, err := h.Store.Types()
	if err != nil {
		return storeError(c, err, "listRegulationTypes")
	}
	return c.Status(fiber.StatusOK).JSON(types)
}

// DepartmentRef is a department name with its short code.
type DepartmentRef struct {
	Name string `json:"name"`
	Code string `json:"code"`
}
