package controllers

import (
	"strconv"

	"schooladmin/database"
	"schooladmin/middleware"
	"schooladmin/models"
	"schooladmin/utils"

	"github.com/gofiber/fiber/v2"
)

type AssignmentController struct{}

// GetAssignments lists assignments, filterable by class
func (ac *AssignmentController) GetAssignments(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Assignment{})
	if classID := c.Query("class_id"); classID != "" {
		query = query.Where("school_class_id = ?", classID)
	}

	var assignments []models.Assignment
	if err := query.Preload("SchoolClass").Order("due_date").Find(&assignments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch assignments",
		})
	}

	return c.JSON(fiber.Map{
		"assignments": assignments,
	})
}

// GetAssignment returns one assignment with its grades
func (ac *AssignmentController) GetAssignment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid assignment ID",
		})
	}

	var assignment models.Assignment
	if err := database.DB.Preload("SchoolClass").First(&assignment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assignment not found",
		})
	}

	var grades []models.Grade
	if err := database.DB.Where("assignment_id = ?", assignment.ID).
		Preload("Student.User").Find(&grades).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch grades",
		})
	}

	return c.JSON(fiber.Map{
		"assignment": assignment,
		"grades":     grades,
	})
}

// CreateAssignment adds a gradable unit to a class. Teacher or principal.
func (ac *AssignmentController) CreateAssignment(c *fiber.Ctx) error {
	var req struct {
		SchoolClassID uint   `json:"school_class_id" validate:"required"`
		Title         string `json:"title" validate:"required,min=1,max=255"`
		Description   string `json:"description"`
		DueDate       string `json:"due_date" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	dueDate, perr := utils.ParseDateOnly(req.DueDate)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid due date, expected YYYY-MM-DD",
		})
	}

	var class models.SchoolClass
	if err := database.DB.First(&class, req.SchoolClassID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	assignment := models.Assignment{
		SchoolClassID: class.ID,
		Title:         utils.SanitizeString(req.Title),
		Description:   utils.SanitizeString(req.Description),
		DueDate:       dueDate,
	}
	if err := database.DB.Create(&assignment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create assignment",
		})
	}

	middleware.LogActivity(c, "CREATE", "assignments", assignment.ID, nil)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"assignment": assignment,
	})
}

// UpdateAssignment changes title, description or due date
func (ac *AssignmentController) UpdateAssignment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid assignment ID",
		})
	}

	var assignment models.Assignment
	if err := database.DB.First(&assignment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assignment not found",
		})
	}

	var req struct {
		Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
		Description *string `json:"description"`
		DueDate     *string `json:"due_date"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = utils.SanitizeString(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = utils.SanitizeString(*req.Description)
	}
	if req.DueDate != nil {
		dueDate, perr := utils.ParseDateOnly(*req.DueDate)
		if perr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid due date, expected YYYY-MM-DD",
			})
		}
		updates["due_date"] = dueDate
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&assignment).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update assignment",
			})
		}
	}

	middleware.LogActivity(c, "UPDATE", "assignments", assignment.ID, nil)
	return c.JSON(fiber.Map{
		"assignment": assignment,
	})
}

// DeleteAssignment removes an assignment and its grades
func (ac *AssignmentController) DeleteAssignment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid assignment ID",
		})
	}

	var assignment models.Assignment
	if err := database.DB.First(&assignment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assignment not found",
		})
	}

	if err := database.DB.Where("assignment_id = ?", assignment.ID).Delete(&models.Grade{}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete assignment grades",
		})
	}
	if err := database.DB.Delete(&assignment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete assignment",
		})
	}

	middleware.LogActivity(c, "DELETE", "assignments", assignment.ID, nil)
	return c.JSON(fiber.Map{
		"message": "Assignment deleted successfully",
	})
}

// GradeAssignment records a student's score on an assignment. Regrading
// appends a new row; history is never overwritten.
func (ac *AssignmentController) GradeAssignment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid assignment ID",
		})
	}

	var assignment models.Assignment
	if err := database.DB.First(&assignment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Assignment not found",
		})
	}

	var req struct {
		StudentID uint `json:"student_id" validate:"required"`
		Score     int  `json:"score" validate:"gte=0,lte=100"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	var student models.Student
	if err := database.DB.First(&student, req.StudentID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Student not found",
		})
	}
	if student.SchoolClassID == nil || *student.SchoolClassID != assignment.SchoolClassID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Student is not in the assignment's class",
		})
	}

	grade := models.Grade{
		StudentID:    student.ID,
		AssignmentID: assignment.ID,
		Score:        req.Score,
	}
	if err := database.DB.Create(&grade).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record grade",
		})
	}

	middleware.LogActivity(c, "CREATE", "grades", grade.ID, nil)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"grade": grade,
	})
}
