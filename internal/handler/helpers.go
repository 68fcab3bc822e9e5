package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/dreamtoapp/admin-go-api/internal/authz"
	"github.com/dreamtoapp/admin-go-api/internal/middleware"
	"github.com/dreamtoapp/admin-go-api/internal/service"
	"github.com/dreamtoapp/admin-go-api/internal/utils"
)

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	value := c.Params(name)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

func parseQueryInt(c *fiber.Ctx, key string) int {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return parsed
}

func sessionFromRequest(c *fiber.Ctx) *authz.Session {
	return middleware.SessionFromCtx(c)
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// guardError maps the shared service guard sentinels; it returns false when
// the error needs caller-specific handling.
func guardError(c *fiber.Ctx, err error) (bool, error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return true, utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	case errors.Is(err, service.ErrForbidden):
		return true, utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	default:
		return false, nil
	}
}

func validationError(c *fiber.Ctx, err error) (bool, error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return true, utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	}
	return false, nil
}
