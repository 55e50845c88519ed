package controllers

import (
	"strconv"

	"schooladmin/database"
	"schooladmin/middleware"
	"schooladmin/models"

	"github.com/gofiber/fiber/v2"
)

type GradeController struct{}

// GetGrades lists grades, filterable by student or assignment
func (gc *GradeController) GetGrades(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Grade{})
	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}
	if assignmentID := c.Query("assignment_id"); assignmentID != "" {
		query = query.Where("assignment_id = ?", assignmentID)
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to count grades",
		})
	}

	var grades []models.Grade
	if err := query.Preload("Student.User").Preload("Assignment").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&grades).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch grades",
		})
	}

	return c.JSON(fiber.Map{
		"grades": grades,
		"page":   page,
		"limit":  limit,
		"total":  total,
	})
}

// GetGrade returns one grade. Students may only read their own.
func (gc *GradeController) GetGrade(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid grade ID",
		})
	}

	var grade models.Grade
	if err := database.DB.Preload("Student.User").Preload("Assignment").
		First(&grade, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Grade not found",
		})
	}

	actor, aerr := middleware.GetCurrentUser(c)
	if aerr != nil {
		return aerr
	}
	if actor.Role == models.RoleStudent && grade.Student.UserID != actor.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You may only view your own grades",
		})
	}

	return c.JSON(fiber.Map{
		"grade": grade,
	})
}

// DeleteGrade removes a mistaken grade row. Since regrading appends, a
// delete is the only way to retract a score. Teacher or principal.
func (gc *GradeController) DeleteGrade(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid grade ID",
		})
	}

	var grade models.Grade
	if err := database.DB.First(&grade, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Grade not found",
		})
	}

	if err := database.DB.Delete(&grade).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete grade",
		})
	}

	middleware.LogActivity(c, "DELETE", "grades", grade.ID, nil)
	return c.JSON(fiber.Map{
		"message": "Grade deleted successfully",
	})
}
