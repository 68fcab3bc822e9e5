package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/dreamtoapp/admin-go-api/internal/authz"
	"github.com/dreamtoapp/admin-go-api/internal/models"
)

func sessionApp(role string, required string) *fiber.App {
	app := fiber.New()
	if role != "" {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("session", &authz.Session{UserID: 1, Role: role})
			return c.Next()
		})
	}
	app.Use(RequireRole(required))
	app.Get("/guarded", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireRoleAllowsHigherRank(t *testing.T) {
	app := sessionApp(models.RoleAdmin, models.RoleStaff)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleAllowsExactRank(t *testing.T) {
	app := sessionApp(models.RoleStaff, models.RoleStaff)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleRejectsLowerRank(t *testing.T) {
	app := sessionApp(models.RoleClient, models.RoleStaff)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleRejectsMissingSession(t *testing.T) {
	app := sessionApp("", models.RoleClient)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
