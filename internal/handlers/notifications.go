package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/growthdb/internal/services"
	"github.com/localnerve/growthdb/internal/utils"
	"github.com/rs/zerolog"
)

// NotificationHandler serves the current user's notifications
type NotificationHandler struct {
	Store *services.NotificationStore
	Log   zerolog.Logger
}

// ListNotifications handles GET /api/notifications
// @Summary List notifications
// @Description Newest first
// @Tags Notifications
// @Produce json
// @Param unread query bool false "Only unread notifications"
// @Param limit query int false "Maximum number returned (default 50)"
// @Success 200 {array} models.Notification
// @Security CookieAuth
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	list, err := h.Store.List(c.UserContext(), actor, c.QueryBool("unread"), c.QueryInt("limit"))
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.Status(fiber.StatusOK).JSON(list)
}

// MarkRead handles POST /api/notifications/:id/read
// @Summary Mark a notification read
// @Tags Notifications
// @Param id path string true "Notification ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	if err := h.Store.MarkRead(c.UserContext(), actor, c.Params("id")); err != nil {
		return utils.DomainErrorResponse(c, err, h.Log)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
