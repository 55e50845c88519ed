package controllers

import (
	"strconv"

	"schooladmin/database"
	"schooladmin/middleware"
	"schooladmin/models"
	"schooladmin/utils"

	"github.com/gofiber/fiber/v2"
)

type PeriodController struct{}

// GetPeriods lists the daily period grid in order
func (pc *PeriodController) GetPeriods(c *fiber.Ctx) error {
	var periods []models.Period
	if err := database.DB.Order("period_number").Find(&periods).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch periods",
		})
	}

	return c.JSON(fiber.Map{
		"periods": periods,
	})
}

// CreatePeriod adds a numbered period. Principal only.
func (pc *PeriodController) CreatePeriod(c *fiber.Ctx) error {
	var req struct {
		PeriodNumber int    `json:"period_number" validate:"required,gte=1,lte=20"`
		StartTime    string `json:"start_time" validate:"required"`
		EndTime      string `json:"end_time" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	start, ok := timeOfDay(req.StartTime)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid start time",
		})
	}
	end, ok := timeOfDay(req.EndTime)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid end time",
		})
	}
	if start >= end {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Start time must be before end time",
		})
	}

	var existing models.Period
	if err := database.DB.Where("period_number = ?", req.PeriodNumber).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Period number already exists",
		})
	}

	period := models.Period{
		PeriodNumber: req.PeriodNumber,
		StartTime:    start,
		EndTime:      end,
	}
	if err := database.DB.Create(&period).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create period",
		})
	}

	middleware.LogActivity(c, "CREATE", "periods", period.ID, nil)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"period": period,
	})
}

// UpdatePeriod changes a period's times
func (pc *PeriodController) UpdatePeriod(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid period ID",
		})
	}

	var period models.Period
	if err := database.DB.First(&period, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Period not found",
		})
	}

	var req struct {
		StartTime *string `json:"start_time"`
		EndTime   *string `json:"end_time"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	start, end := period.StartTime, period.EndTime
	if req.StartTime != nil {
		s, ok := timeOfDay(*req.StartTime)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid start time",
			})
		}
		start = s
	}
	if req.EndTime != nil {
		e, ok := timeOfDay(*req.EndTime)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid end time",
			})
		}
		end = e
	}
	if start >= end {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Start time must be before end time",
		})
	}

	if err := database.DB.Model(&period).
		Updates(map[string]interface{}{"start_time": start, "end_time": end}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update period",
		})
	}

	middleware.LogActivity(c, "UPDATE", "periods", period.ID, nil)
	return c.JSON(fiber.Map{
		"period": period,
	})
}

// DeletePeriod removes a period. Hard delete, so the period number can
// be reassigned.
func (pc *PeriodController) DeletePeriod(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid period ID",
		})
	}

	var period models.Period
	if err := database.DB.First(&period, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Period not found",
		})
	}

	if err := database.DB.Unscoped().Delete(&period).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete period",
		})
	}

	middleware.LogActivity(c, "DELETE", "periods", period.ID, nil)
	return c.JSON(fiber.Map{
		"message": "Period deleted successfully",
	})
}
