package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/complianceguard/regdash/internal/models"
	"github.com/complianceguard/regdash/internal/services"
	"github.com/complianceguard/regdash/internal/utils"
)

// ContactHandler handles the department contact registry routes
type ContactHandler struct {
	DB *gorm.DB
}

// ListContacts handles GET /api/contacts
// @Summary List department contacts
// @Tags Contacts
// @Produce json
// @Success 200 {array} models.DepartmentContact
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /contacts [get]
func (h *ContactHandler) ListContacts(c *fiber.Ctx) error {
	contacts, err := services.ListContacts(h.DB)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listContacts")
	}
	return c.Status(fiber.StatusOK).JSON(contacts)
}

// CreateContact handles POST /api/contacts
// @Summary Create or replace a department contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Param body body models.DepartmentContact true "Contact to store"
// @Success 200 {object} models.DepartmentContact
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /contacts [post]
func (h *ContactHandler) CreateContact(c *fiber.Ctx) error {
	var contact models.DepartmentContact
	if err := c.BodyParser(&contact); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "createContact")
	}
	if err := validateContact(&contact); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "createContact")
	}

	if err := services.UpsertContact(h.DB, &contact); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createContact")
	}
	return c.Status(fiber.StatusOK).JSON(contact)
}

// UpdateContact handles PUT /api/contacts/:code
// @Summary Update a department contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Param code path string true "Contact code"
// @Param body body models.DepartmentContact true "New contact values"
// @Success 200 {object} models.DepartmentContact
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /contacts/{code} [put]
func (h *ContactHandler) UpdateContact(c *fiber.Ctx) error {
	code := c.Params("code")

	existing, err := services.GetContactByCode(h.DB, code)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "updateContact")
	}
	if existing == nil {
		return utils.NotFoundResponse(c, fmt.Sprintf("Contact '%s' not found", code))
	}

	var contact models.DepartmentContact
	if err := c.BodyParser(&contact); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "updateContact")
	}
	// The path parameter names the row, the body cannot move it.
	contact.Code = code
	if err := validateContact(&contact); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "updateContact")
	}

	if err := services.UpsertContact(h.DB, &contact); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "updateContact")
	}
	return c.Status(fiber.StatusOK).JSON(contact)
}

// DeleteContact handles DELETE /api/contacts/:code
// @Summary Delete a department contact
// @Tags Contacts
// @Produce json
// @Param code path string true "Contact code"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /contacts/{code} [delete]
func (h *ContactHandler) DeleteContact(c *fiber.Ctx) error {
	code := c.Params("code")

	if err := services.DeleteContact(h.DB, code); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Contact '%s' not found", code))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteContact")
	}
	return utils.MutationSuccessResponse(c, fmt.Sprintf("Contact '%s' deleted", code))
}

func validateContact(contact *models.DepartmentContact) error {
	contact.Name = strings.TrimSpace(contact.Name)
	contact.Code = strings.TrimSpace(contact.Code)
	contact.ContactEmail = strings.TrimSpace(contact.ContactEmail)
	if contact.Name == "" {
		return errors.New("contact 'name' is required")
	}
	if contact.Code == "" {
		return errors.New("contact 'code' is required")
	}
	return nil
}
