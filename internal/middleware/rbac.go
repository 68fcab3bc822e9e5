package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dreamtoapp/admin-go-api/internal/authz"
	"github.com/dreamtoapp/admin-go-api/internal/utils"
)

// RequireRole gates a route on the role hierarchy: any session whose role
// ranks at least as high as the required role passes.
func RequireRole(requiredRole string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := SessionFromCtx(c)
		switch authz.Authorize(session, requiredRole) {
		case authz.Allowed:
			return c.Next()
		case authz.Unauthorized:
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		default:
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
	}
}
