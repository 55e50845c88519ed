package controllers

import (
	"strconv"

	"schooladmin/database"
	"schooladmin/middleware"
	"schooladmin/models"
	"schooladmin/services/reports"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct{}

// GenerateReport runs report generation synchronously and returns the
// run record. Principal only.
func (rc *ReportController) GenerateReport(c *fiber.Ctx) error {
	var req struct {
		ReportType string `json:"report_type"`
		Format     string `json:"format"`
	}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.ReportType != "" && !reports.IsValidReportType(req.ReportType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report type",
		})
	}
	if req.Format != "" && !reports.IsValidFormat(req.Format) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid report format",
		})
	}

	run, err := reports.NewGenerator().Generate(reports.Options{
		ReportType: req.ReportType,
		Format:     req.Format,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Report generation failed",
			"run":   run,
		})
	}

	middleware.LogActivity(c, "CREATE", "reports", run.ID, fiber.Map{"run_id": run.RunID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"run": run,
	})
}

// GetReportRuns lists past report runs, newest first
func (rc *ReportController) GetReportRuns(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int64
	database.DB.Model(&models.ReportRun{}).Count(&total)

	var runs []models.ReportRun
	if err := database.DB.Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&runs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch report runs",
		})
	}

	return c.JSON(fiber.Map{
		"runs": runs,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetReportRun returns one run by its run ID
func (rc *ReportController) GetReportRun(c *fiber.Ctx) error {
	runID := c.Params("run_id")

	var run models.ReportRun
	if err := database.DB.Where("run_id = ?", runID).First(&run).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Report run not found",
		})
	}

	return c.JSON(fiber.Map{
		"run": run,
	})
}
