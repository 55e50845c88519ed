package controllers

import (
	"schooladmin/middleware"
	"schooladmin/services"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct{}

// GetDashboard returns the landing page payload shaped by the caller's
// role.
func (dc *DashboardController) GetDashboard(c *fiber.Ctx) error {
	actor, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	payload, derr := services.NewDashboardService().ForUser(actor)
	if derr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build dashboard",
		})
	}

	return c.JSON(payload)
}
