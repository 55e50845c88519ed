package controllers

import (
	"strconv"

	"schooladmin/database"
	"schooladmin/middleware"
	"schooladmin/models"
	"schooladmin/utils"

	"github.com/gofiber/fiber/v2"
)

type TeacherController struct{}

func findTeacher(c *fiber.Ctx) (*models.Teacher, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid teacher ID",
		})
	}

	var teacher models.Teacher
	if err := database.DB.Preload("User.Profile").First(&teacher, uint(id)).Error; err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Teacher not found",
		})
	}
	return &teacher, nil
}

// GetTeachers returns all teachers with pagination
func (tc *TeacherController) GetTeachers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var teachers []models.Teacher
	var total int64

	query := database.DB.Model(&models.Teacher{})
	if spec := c.Query("specialization"); spec != "" {
		query = query.Where("specialization = ?", spec)
	}
	query.Count(&total)

	if err := query.Preload("User.Profile").
		Offset(offset).Limit(limit).Order("id").Find(&teachers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch teachers",
		})
	}

	dtos := make([]utils.TeacherDTO, 0, len(teachers))
	for _, t := range teachers {
		dtos = append(dtos, utils.ToTeacherDTO(t))
	}

	return c.JSON(fiber.Map{
		"teachers": dtos,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetTeacher returns one teacher
func (tc *TeacherController) GetTeacher(c *fiber.Ctx) error {
	teacher, err := findTeacher(c)
	if teacher == nil {
		return err
	}

	return c.JSON(fiber.Map{
		"teacher": utils.ToTeacherDTO(*teacher),
	})
}

// UpdateTeacher updates qualification details. Owner or principal.
func (tc *TeacherController) UpdateTeacher(c *fiber.Ctx) error {
	teacher, err := findTeacher(c)
	if teacher == nil {
		return err
	}
	if err := middleware.RequireTeacherSelfOrPrincipal(c, teacher); err != nil {
		return err
	}

	var req struct {
		Qualification   *string `json:"qualification"`
		ExperienceYears *int    `json:"experience_years" validate:"omitempty,gte=0,lte=60"`
		Specialization  *string `json:"specialization"`
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
	if req.Qualification != nil {
		updates["qualification"] = utils.SanitizeString(*req.Qualification)
	}
	if req.ExperienceYears != nil {
		updates["experience_years"] = *req.ExperienceYears
	}
	if req.Specialization != nil {
		updates["specialization"] = utils.SanitizeString(*req.Specialization)
	}

	if len(updates) > 0 {
		if err := database.DB.Model(teacher).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update teacher",
			})
		}
	}

	reloaded, rerr := findTeacher(c)
	if reloaded == nil {
		return rerr
	}
	middleware.LogActivity(c, "UPDATE", "teachers", reloaded.ID, nil)
	return c.JSON(fiber.Map{
		"teacher": utils.ToTeacherDTO(*reloaded),
	})
}

// GetTeacherClasses lists the classes a teacher is responsible for
func (tc *TeacherController) GetTeacherClasses(c *fiber.Ctx) error {
	teacher, err := findTeacher(c)
	if teacher == nil {
		return err
	}

	var classes []models.SchoolClass
	if err := database.DB.Where("teacher_id = ?", teacher.UserID).
		Order("name").Find(&classes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch classes",
		})
	}

	return c.JSON(fiber.Map{
		"classes": classes,
	})
}

// GetTeacherStudents lists every student in the teacher's classes
func (tc *TeacherController) GetTeacherStudents(c *fiber.Ctx) error {
	teacher, err := findTeacher(c)
	if teacher == nil {
		return err
	}

	var classes []models.SchoolClass
	if err := database.DB.Where("teacher_id = ?", teacher.UserID).Find(&classes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch classes",
		})
	}

	classIDs := make([]uint, 0, len(classes))
	for _, cl := range classes {
		classIDs = append(classIDs, cl.ID)
	}

	students := []models.Student{}
	if len(classIDs) > 0 {
		if err := database.DB.Where("school_class_id IN ?", classIDs).
			Preload("User.Profile").Preload("SchoolClass").
			Order("id").Find(&students).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to fetch students",
			})
		}
	}

	dtos := make([]utils.StudentDTO, 0, len(students))
	for _, s := range students {
		dtos = append(dtos, utils.ToStudentDTO(s))
	}

	return c.JSON(fiber.Map{
		"students": dtos,
	})
}

// GetTeacherTimetable lists the teacher's timetable entries
func (tc *TeacherController) GetTeacherTimetable(c *fiber.Ctx) error {
	teacher, err := findTeacher(c)
	if teacher == nil {
		return err
	}

	var entries []models.Timetable
	if err := database.DB.Where("teacher_id = ?", teacher.ID).
		Preload("SchoolClass").
		Order("day_of_week, start_time").Find(&entries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch timetable",
		})
	}

	return c.JSON(fiber.Map{
		"timetable": entries,
	})
}
