package controllers

import (
	"context"
	"time"

	"schooladmin/database"

	"github.com/gofiber/fiber/v2"
)

type HealthController struct{}

// GetHealth reports database and Redis connectivity. Redis being down
// degrades the report but does not fail it; the API works without it.
func (hc *HealthController) GetHealth(c *fiber.Ctx) error {
	status := fiber.StatusOK
	dbStatus := "healthy"
	redisStatus := "healthy"

	sqlDB, err := database.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		dbStatus = "unhealthy"
		status = fiber.StatusServiceUnavailable
	}

	if rc := database.GetRedisClient(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "disabled"
	}

	overall := "ok"
	if status != fiber.StatusOK {
		overall = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":    overall,
		"database":  dbStatus,
		"redis":     redisStatus,
		"timestamp": time.Now(),
	})
}
