package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/complianceguard/regdash/internal/services"
	"github.com/complianceguard/regdash/internal/utils"
)

// NotificationHandler handles the notification feed routes
type NotificationHandler struct {
	DB *gorm.DB
}

// ListNotifications handles GET /api/notifications
// @Summary List notifications
// @Description List the most recent system notifications, newest first
// @Tags Notifications
// @Produce json
// @Param limit query int false "Maximum rows to return" default(50)
// @Success 200 {array} models.Notification
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}

	notifications, err := services.ListNotifications(h.DB, limit)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listNotifications")
	}
	return c.Status(fiber.StatusOK).JSON(notifications)
}

// MarkNotificationRead handles POST /api/notifications/:id/read
// @Summary Mark a notification read
// @Tags Notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return utils.ErrorResponse(c, "Invalid notification id", fiber.StatusBadRequest, "markNotificationRead")
	}

	if err := services.MarkNotificationRead(h.DB, uint64(id)); err != nil {
		if errors.Is(err, services.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Notification %d not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "markNotificationRead")
	}
	return utils.MutationSuccessResponse(c, fmt.Sprintf("Notification %d marked read", id))
}
