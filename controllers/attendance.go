package controllers

import (
	"strconv"
	"time"

	"schooladmin/database"
	"schooladmin/middleware"
	"schooladmin/models"
	"schooladmin/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AttendanceController struct{}

// MarkAttendance records one student's status for a date. A second
// record for the same (student, date) is rejected with 409; corrections
// go through the update endpoint.
func (ac *AttendanceController) MarkAttendance(c *fiber.Ctx) error {
	var req struct {
		StudentID uint   `json:"student_id" validate:"required"`
		Date      string `json:"date" validate:"required"`
		Status    string `json:"status" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}
	if !utils.IsValidAttendanceStatus(req.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid attendance status",
		})
	}

	date, perr := utils.ParseDateOnly(req.Date)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, req.StudentID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var existing models.Attendance
	err := database.DB.Where("student_id = ? AND date = ?", student.ID, date).
		First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Attendance already marked for this student on this date",
		})
	}
	if err != gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to check attendance",
		})
	}

	record := models.Attendance{
		StudentID: student.ID,
		Date:      date,
		Status:    req.Status,
	}
	if err := database.DB.Create(&record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to mark attendance",
		})
	}

	middleware.LogActivity(c, "CREATE", "attendance", record.ID, nil)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"attendance": record,
	})
}

// MarkClassAttendance records a whole class in one call. Students
// already marked for the date are reported back as skipped.
func (ac *AttendanceController) MarkClassAttendance(c *fiber.Ctx) error {
	classID, err := strconv.ParseUint(c.Params("class_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid class ID",
		})
	}

	var req struct {
		Date    string `json:"date" validate:"required"`
		Records []struct {
			StudentID uint   `json:"student_id" validate:"required"`
			Status    string `json:"status" validate:"required"`
		} `json:"records" validate:"required,min=1,dive"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	date, perr := utils.ParseDateOnly(req.Date)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
	}

	var students []models.Student
	if err := database.DB.Where("school_class_id = ?", uint(classID)).Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch class members",
		})
	}
	members := make(map[uint]bool, len(students))
	for _, s := range students {
		members[s.ID] = true
	}

	created := []models.Attendance{}
	skipped := []uint{}
	for _, r := range req.Records {
		if !members[r.StudentID] {
			skipped = append(skipped, r.StudentID)
			continue
		}
		if !utils.IsValidAttendanceStatus(r.Status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid attendance status",
			})
		}
		var existing models.Attendance
		if err := database.DB.Where("student_id = ? AND date = ?", r.StudentID, date).
			First(&existing).Error; err == nil {
			skipped = append(skipped, r.StudentID)
			continue
		}
		record := models.Attendance{StudentID: r.StudentID, Date: date, Status: r.Status}
		if err := database.DB.Create(&record).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to mark attendance",
			})
		}
		created = append(created, record)
	}

	middleware.LogActivity(c, "CREATE", "attendance", uint(classID), fiber.Map{"created": len(created)})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"created": created,
		"skipped": skipped,
	})
}

// GetClassAttendance lists a class's attendance for one date
// (defaulting to today).
func (ac *AttendanceController) GetClassAttendance(c *fiber.Ctx) error {
	classID, err := strconv.ParseUint(c.Params("class_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid class ID",
		})
	}

	dateStr := c.Query("date", time.Now().Format("2006-01-02"))
	if _, perr := utils.ParseDateOnly(dateStr); perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date, expected YYYY-MM-DD",
		})
	}

	var records []models.Attendance
	if err := database.DB.
		Joins("JOIN students ON students.id = attendances.student_id").
		Where("students.school_class_id = ? AND attendances.date = ?", uint(classID), dateStr).
		Preload("Student.User").
		Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch attendance",
		})
	}

	return c.JSON(fiber.Map{
		"date":       dateStr,
		"attendance": records,
	})
}

// UpdateAttendance corrects a recorded status
func (ac *AttendanceController) UpdateAttendance(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid attendance ID",
		})
	}

	var record models.Attendance
	if err := database.DB.First(&record, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Attendance record not found",
		})
	}

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if !utils.IsValidAttendanceStatus(req.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid attendance status",
		})
	}

	if err := database.DB.Model(&record).Update("status", req.Status).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update attendance",
		})
	}

	middleware.LogActivity(c, "UPDATE", "attendance", record.ID, nil)
	return c.JSON(fiber.Map{
		"attendance": record,
	})
}

// DeleteAttendance removes a record. The row is hard-deleted so the
// same (student, date) can be marked again afterwards. Principal only.
func (ac *AttendanceController) DeleteAttendance(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid attendance ID",
		})
	}

	var record models.Attendance
	if err := database.DB.First(&record, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Attendance record not found",
		})
	}

	if err := database.DB.Unscoped().Delete(&record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete attendance",
		})
	}

	middleware.LogActivity(c, "DELETE", "attendance", record.ID, nil)
	return c.JSON(fiber.Map{
		"message": "Attendance record deleted successfully",
	})
}
