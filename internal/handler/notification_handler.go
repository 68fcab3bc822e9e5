package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/dreamtoapp/admin-go-api/internal/service"
	"github.com/dreamtoapp/admin-go-api/internal/utils"
)

// NotificationHandler wires the per-user notification inbox routes.
type NotificationHandler struct {
	service service.NotificationService
	logger  zerolog.Logger
}

// NewNotificationHandler constructs the handler.
func NewNotificationHandler(service service.NotificationService, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger.With().Str("component", "notification_handler").Logger(),
	}
}

// Register attaches the inbox endpoints to the router group.
func (h *NotificationHandler) Register(router fiber.Router) {
	router.Get("", h.inbox)
	router.Post("/:id/read", h.markRead)
}

func (h *NotificationHandler) inbox(c *fiber.Ctx) error {
	limit := parseQueryInt(c, "limit")
	offset := parseQueryInt(c, "offset")

	notifications, err := h.service.Inbox(c.Context(), sessionFromRequest(c), limit, offset)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "notifications retrieved", notifications)
}

func (h *NotificationHandler) markRead(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	resp, err := h.service.MarkRead(c.Context(), sessionFromRequest(c), id)
	if err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "notification not found")
		}
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "notification marked as read", resp)
}

func (h *NotificationHandler) handleError(c *fiber.Ctx, err error) error {
	if handled, respErr := guardError(c, err); handled {
		return respErr
	}

	requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
