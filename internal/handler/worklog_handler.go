package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/dreamtoapp/admin-go-api/internal/dto"
	"github.com/dreamtoapp/admin-go-api/internal/service"
	"github.com/dreamtoapp/admin-go-api/internal/utils"
)

// WorkLogHandler wires the time-tracking routes.
type WorkLogHandler struct {
	service service.WorkLogService
	logger  zerolog.Logger
}

// NewWorkLogHandler constructs the handler.
func NewWorkLogHandler(service service.WorkLogService, logger zerolog.Logger) *WorkLogHandler {
	return &WorkLogHandler{
		service: service,
		logger:  logger.With().Str("component", "worklog_handler").Logger(),
	}
}

// Register attaches the work-log endpoints to the router group.
func (h *WorkLogHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Post("/:id/review", h.review)
}

func (h *WorkLogHandler) list(c *fiber.Ctx) error {
	var req dto.WorkLogListRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	resp, err := h.service.List(c.Context(), sessionFromRequest(c), req)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "work logs retrieved", resp)
}

func (h *WorkLogHandler) create(c *fiber.Ctx) error {
	var payload dto.WorkLogCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.Create(c.Context(), sessionFromRequest(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "work log submitted", resp)
}

func (h *WorkLogHandler) review(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.WorkLogReviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.Review(c.Context(), sessionFromRequest(c), id, payload)
	if err != nil {
		if errors.Is(err, service.ErrWorkLogSettled) {
			return utils.SendError(c, fiber.StatusConflict, "work log has already been reviewed")
		}
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "work log reviewed", resp)
}

func (h *WorkLogHandler) handleError(c *fiber.Ctx, err error) error {
	if handled, respErr := guardError(c, err); handled {
		return respErr
	}
	if handled, respErr := validationError(c, err); handled {
		return respErr
	}

	switch {
	case errors.Is(err, service.ErrWorkLogNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "work log not found")
	case errors.Is(err, service.ErrTaskNotFound):
		return utils.SendError(c, fiber.StatusBadRequest, "task not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
