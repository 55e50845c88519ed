package controllers

import (
	"strconv"

	"schooladmin/database"
	"schooladmin/middleware"
	"schooladmin/models"
	"schooladmin/services"
	"schooladmin/utils"

	"github.com/gofiber/fiber/v2"
)

type StudentController struct{}

func findStudent(c *fiber.Ctx) (*models.Student, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.Preload("User.Profile").Preload("SchoolClass").
		First(&student, uint(id)).Error; err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}
	return &student, nil
}

// GetStudents returns all students with pagination
func (sc *StudentController) GetStudents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var students []models.Student
	var total int64

	query := database.DB.Model(&models.Student{})
	if classID := c.Query("class_id"); classID != "" {
		query = query.Where("school_class_id = ?", classID)
	}
	query.Count(&total)

	if err := query.Preload("User.Profile").Preload("SchoolClass").
		Offset(offset).Limit(limit).Order("id").Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch students",
		})
	}

	dtos := make([]utils.StudentDTO, 0, len(students))
	for _, s := range students {
		dtos = append(dtos, utils.ToStudentDTO(s))
	}

	return c.JSON(fiber.Map{
		"students": dtos,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetStudent returns one student
func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
	student, err := findStudent(c)
	if student == nil {
		return err
	}

	return c.JSON(fiber.Map{
		"student": utils.ToStudentDTO(*student),
	})
}

// UpdateStudent moves a student between classes. The student's own user
// or the principal may call it; class changes are principal only.
func (sc *StudentController) UpdateStudent(c *fiber.Ctx) error {
	student, err := findStudent(c)
	if student == nil {
		return err
	}
	if err := middleware.RequireOwnerOrPrincipal(c, student.UserID); err != nil {
		return err
	}

	var req struct {
		SchoolClassID *uint `json:"school_class_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.SchoolClassID != nil {
		actor, aerr := middleware.GetCurrentUser(c)
		if aerr != nil {
			return aerr
		}
		if actor.Role != models.RolePrincipal {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Only the principal may assign classes",
			})
		}
		var class models.SchoolClass
		if err := database.DB.First(&class, *req.SchoolClassID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Class not found",
			})
		}
		if err := database.DB.Model(student).Update("school_class_id", *req.SchoolClassID).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update student",
			})
		}
	}

	reloaded, rerr := findStudent(c)
	if reloaded == nil {
		return rerr
	}
	middleware.LogActivity(c, "UPDATE", "students", reloaded.ID, nil)
	return c.JSON(fiber.Map{
		"student": utils.ToStudentDTO(*reloaded),
	})
}

// GetStudentFees lists one student's fees, optionally filtered by status
func (sc *StudentController) GetStudentFees(c *fiber.Ctx) error {
	student, err := findStudent(c)
	if student == nil {
		return err
	}
	if err := middleware.RequireOwnerOrPrincipal(c, student.UserID); err != nil {
		return err
	}

	query := database.DB.Where("student_id = ?", student.ID)
	if status := c.Query("status"); status != "" {
		if !utils.IsValidFeeStatus(status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid fee status",
			})
		}
		query = query.Where("status = ?", status)
	}

	var fees []models.Fee
	if err := query.Order("due_date").Find(&fees).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch fees",
		})
	}

	return c.JSON(fiber.Map{
		"fees": fees,
	})
}

// GetStudentAttendance returns a student's attendance records and
// aggregate statistics.
func (sc *StudentController) GetStudentAttendance(c *fiber.Ctx) error {
	student, err := findStudent(c)
	if student == nil {
		return err
	}
	if err := middleware.RequireOwnerOrPrincipal(c, student.UserID); err != nil {
		return err
	}

	var records []models.Attendance
	query := database.DB.Where("student_id = ?", student.ID)
	if from := c.Query("from"); from != "" {
		if _, perr := utils.ParseDateOnly(from); perr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid from date",
			})
		}
		query = query.Where("date >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		if _, perr := utils.ParseDateOnly(to); perr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid to date",
			})
		}
		query = query.Where("date <= ?", to)
	}
	if err := query.Order("date DESC").Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch attendance",
		})
	}

	stats, serr := services.NewAttendanceService().StatsForStudent(student.ID)
	if serr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute attendance statistics",
		})
	}

	return c.JSON(fiber.Map{
		"attendance": records,
		"stats":      stats,
	})
}

// GetStudentGrades lists a student's grades with their assignments
func (sc *StudentController) GetStudentGrades(c *fiber.Ctx) error {
	student, err := findStudent(c)
	if student == nil {
		return err
	}
	if err := middleware.RequireOwnerOrPrincipal(c, student.UserID); err != nil {
		return err
	}

	var grades []models.Grade
	if err := database.DB.Where("student_id = ?", student.ID).
		Preload("Assignment").Order("created_at DESC").Find(&grades).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch grades",
		})
	}

	return c.JSON(fiber.Map{
		"grades": grades,
	})
}
