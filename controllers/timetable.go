package controllers

import (
	"strconv"
	"strings"

	"schooladmin/database"
	"schooladmin/middleware"
	"schooladmin/models"
	"schooladmin/utils"

	"github.com/gofiber/fiber/v2"
)

type TimetableController struct{}

// timeOfDay validates an "HH:MM" or "HH:MM:SS" clock string and
// normalizes it to "HH:MM:SS".
func timeOfDay(s string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) == 2 {
		parts = append(parts, "00")
	}
	if len(parts) != 3 {
		return "", false
	}
	nums := make([]int, 3)
	for i, p := range parts {
		if len(p) != 2 {
			return "", false
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", false
		}
		nums[i] = n
	}
	if nums[0] > 23 || nums[1] > 59 || nums[2] > 59 {
		return "", false
	}
	return parts[0] + ":" + parts[1] + ":" + parts[2], true
}

// GetTimetable lists entries, filterable by class and day
func (tc *TimetableController) GetTimetable(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Timetable{})
	if classID := c.Query("class_id"); classID != "" {
		query = query.Where("school_class_id = ?", classID)
	}
	if day := c.Query("day"); day != "" {
		if !utils.IsValidDayOfWeek(day) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid day of week",
			})
		}
		query = query.Where("day_of_week = ?", strings.ToUpper(day))
	}

	var entries []models.Timetable
	if err := query.Preload("SchoolClass").Preload("Teacher.User").
		Order("day_of_week, start_time").Find(&entries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch timetable",
		})
	}

	return c.JSON(fiber.Map{
		"timetable": entries,
	})
}

// CreateTimetableEntry adds one slot to a class timetable. The slot may
// not overlap an existing entry for the same class and day.
func (tc *TimetableController) CreateTimetableEntry(c *fiber.Ctx) error {
	var req struct {
		SchoolClassID uint   `json:"school_class_id" validate:"required"`
		DayOfWeek     string `json:"day_of_week" validate:"required"`
		StartTime     string `json:"start_time" validate:"required"`
		EndTime       string `json:"end_time" validate:"required"`
		Subject       string `json:"subject" validate:"required,min=1,max=100"`
		TeacherID     *uint  `json:"teacher_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}
	if !utils.IsValidDayOfWeek(req.DayOfWeek) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid day of week",
		})
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

	var class models.SchoolClass
	if err := database.DB.First(&class, req.SchoolClassID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Class not found",
		})
	}
	if req.TeacherID != nil {
		var teacher models.Teacher
		if err := database.DB.First(&teacher, *req.TeacherID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Teacher not found",
			})
		}
	}

	day := strings.ToUpper(req.DayOfWeek)

	// Clock strings compare correctly as text, same-day overlap check.
	var overlapping int64
	database.DB.Model(&models.Timetable{}).
		Where("school_class_id = ? AND day_of_week = ? AND start_time < ? AND end_time > ?",
			class.ID, day, end, start).
		Count(&overlapping)
	if overlapping > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Timetable slot overlaps an existing entry",
		})
	}

	entry := models.Timetable{
		SchoolClassID: &class.ID,
		DayOfWeek:     day,
		StartTime:     start,
		EndTime:       end,
		Subject:       utils.SanitizeString(req.Subject),
		TeacherID:     req.TeacherID,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create timetable entry",
		})
	}

	middleware.LogActivity(c, "CREATE", "timetable", entry.ID, nil)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"entry": entry,
	})
}

// UpdateTimetableEntry changes a slot's subject or teacher
func (tc *TimetableController) UpdateTimetableEntry(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid timetable entry ID",
		})
	}

	var entry models.Timetable
	if err := database.DB.First(&entry, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Timetable entry not found",
		})
	}

	var req struct {
		Subject   *string `json:"subject" validate:"omitempty,min=1,max=100"`
		TeacherID *uint   `json:"teacher_id"`
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
	if req.Subject != nil {
		updates["subject"] = utils.SanitizeString(*req.Subject)
	}
	if req.TeacherID != nil {
		var teacher models.Teacher
		if err := database.DB.First(&teacher, *req.TeacherID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Teacher not found",
			})
		}
		updates["teacher_id"] = *req.TeacherID
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&entry).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update timetable entry",
			})
		}
	}

	middleware.LogActivity(c, "UPDATE", "timetable", entry.ID, nil)
	return c.JSON(fiber.Map{
		"entry": entry,
	})
}

// DeleteTimetableEntry removes a slot
func (tc *TimetableController) DeleteTimetableEntry(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid timetable entry ID",
		})
	}

	var entry models.Timetable
	if err := database.DB.First(&entry, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Timetable entry not found",
		})
	}

	if err := database.DB.Delete(&entry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete timetable entry",
		})
	}

	middleware.LogActivity(c, "DELETE", "timetable", entry.ID, nil)
	return c.JSON(fiber.Map{
		"message": "Timetable entry deleted successfully",
	})
}
