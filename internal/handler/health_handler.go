package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dreamtoapp/admin-go-api/internal/config"
	"github.com/dreamtoapp/admin-go-api/internal/utils"
)

// HealthResponse is the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	UptimeSec   int64     `json:"uptime_sec"`
}

// HealthCheck reports liveness plus basic identity for the load balancer and
// uptime probes. It intentionally does not touch the database.
func HealthCheck(cfg config.Config) fiber.Handler {
	started := time.Now()

	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			UptimeSec:   int64(time.Since(started).Seconds()),
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
