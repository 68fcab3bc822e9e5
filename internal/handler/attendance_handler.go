package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/dreamtoapp/admin-go-api/internal/service"
	"github.com/dreamtoapp/admin-go-api/internal/utils"
)

// AttendanceHandler wires the attendance routes. Check-in happens implicitly
// on login; only check-out and history are exposed.
type AttendanceHandler struct {
	service service.AttendanceService
	logger  zerolog.Logger
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(service service.AttendanceService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		logger:  logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register attaches the attendance endpoints to the router group.
func (h *AttendanceHandler) Register(router fiber.Router) {
	router.Post("/check-out", h.checkOut)
	router.Get("/users/:id", h.history)
}

func (h *AttendanceHandler) checkOut(c *fiber.Ctx) error {
	resp, err := h.service.CheckOut(c.Context(), sessionFromRequest(c))
	if err != nil {
		if errors.Is(err, service.ErrNoOpenInterval) {
			return utils.SendError(c, fiber.StatusNotFound, "no open attendance interval")
		}
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "checked out", resp)
}

func (h *AttendanceHandler) history(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	intervals, err := h.service.History(c.Context(), sessionFromRequest(c), id, parseQueryInt(c, "limit"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance retrieved", intervals)
}

func (h *AttendanceHandler) handleError(c *fiber.Ctx, err error) error {
	if handled, respErr := guardError(c, err); handled {
		return respErr
	}

	requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
