package handler_test

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/dreamtoapp/admin-go-api/internal/dto"
	"github.com/dreamtoapp/admin-go-api/internal/models"
)

func TestDashboardHandlerStats(t *testing.T) {
	app, db := setupApp(t)
	seedUsers(t, db)

	completed := time.Now().Add(-time.Hour)
	tasks := []models.Task{
		{Title: "Ship homepage", Status: models.TaskStatusCompleted, Priority: "HIGH", AssignedToID: 2, AssignedByID: 1, CompletedAt: &completed},
		{Title: "Draft contract", Status: models.TaskStatusPending, Priority: "MEDIUM", AssignedToID: 3, AssignedByID: 1},
	}
	for i := range tasks {
		require.NoError(t, db.Create(&tasks[i]).Error)
	}

	resp, err := app.Test(jsonRequest(t, "GET", "/api/v1/dashboard/stats", nil, signToken(t, 1, models.RoleAdmin)))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.DashboardStatsResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.EqualValues(t, 1, body.Data.TasksByStatus["COMPLETED"])
	require.EqualValues(t, 1, body.Data.TasksByStatus["PENDING"])
	require.EqualValues(t, 1, body.Data.TasksByPriority["HIGH"])
	require.False(t, body.Data.CacheHit)
}

func TestDashboardHandlerStatsRequiresAdmin(t *testing.T) {
	app, db := setupApp(t)
	seedUsers(t, db)

	resp, err := app.Test(jsonRequest(t, "GET", "/api/v1/dashboard/stats", nil, signToken(t, 2, models.RoleStaff)))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
