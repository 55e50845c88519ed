package controllers

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"schooladmin/models"

	"github.com/gofiber/fiber/v2"
)

// attendancesDDL mirrors the production unique index on (student, date).
const attendancesDDL = `CREATE TABLE attendances (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
	student_id INTEGER NOT NULL, date DATETIME NOT NULL, status TEXT NOT NULL,
	UNIQUE (student_id, date)
)`

func attendanceApp(teacher, principal *models.User) *fiber.App {
	app := fiber.New()
	ac := &AttendanceController{}
	app.Post("/api/attendance", asUser(teacher), ac.MarkAttendance)
	app.Delete("/api/attendance/:id", asUser(principal), ac.DeleteAttendance)
	return app
}

func postAttendance(t *testing.T, app *fiber.App, studentID uint, date, status string) int {
	t.Helper()
	body := fmt.Sprintf(`{"student_id":%d,"date":%q,"status":%q}`, studentID, date, status)
	req := httptest.NewRequest("POST", "/api/attendance", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return resp.StatusCode
}

func TestMarkAttendanceDuplicateDateConflicts(t *testing.T) {
	db := openTestDB(t, studentsDDL, attendancesDDL, activityLogsDDL)

	student := models.Student{UserID: 10}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}

	teacher := &models.User{BaseModel: models.BaseModel{ID: 20}, Role: models.RoleTeacher}
	principal := &models.User{BaseModel: models.BaseModel{ID: 1}, Role: models.RolePrincipal}
	app := attendanceApp(teacher, principal)

	if code := postAttendance(t, app, student.ID, "2026-03-02", "present"); code != fiber.StatusCreated {
		t.Fatalf("first mark: got %d, want %d", code, fiber.StatusCreated)
	}
	if code := postAttendance(t, app, student.ID, "2026-03-02", "late"); code != fiber.StatusConflict {
		t.Fatalf("second mark: got %d, want %d", code, fiber.StatusConflict)
	}

	var count int64
	db.Model(&models.Attendance{}).Where("student_id = ?", student.ID).Count(&count)
	if count != 1 {
		t.Fatalf("attendance rows: got %d, want 1", count)
	}
}

func TestDeleteAttendanceFreesTheDate(t *testing.T) {
	db := openTestDB(t, studentsDDL, attendancesDDL, activityLogsDDL)

	student := models.Student{UserID: 10}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}

	teacher := &models.User{BaseModel: models.BaseModel{ID: 20}, Role: models.RoleTeacher}
	principal := &models.User{BaseModel: models.BaseModel{ID: 1}, Role: models.RolePrincipal}
	app := attendanceApp(teacher, principal)

	if code := postAttendance(t, app, student.ID, "2026-03-03", "absent"); code != fiber.StatusCreated {
		t.Fatalf("mark: got %d, want %d", code, fiber.StatusCreated)
	}

	var record models.Attendance
	if err := db.Where("student_id = ?", student.ID).First(&record).Error; err != nil {
		t.Fatalf("load record: %v", err)
	}

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/attendance/%d", record.ID), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("delete request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("delete status: got %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	// The row must be gone for real, or the unique index would reject
	// marking the same student and date again.
	var ghosts int64
	db.Unscoped().Model(&models.Attendance{}).Where("id = ?", record.ID).Count(&ghosts)
	if ghosts != 0 {
		t.Fatalf("deleted record still occupies the index")
	}
	if code := postAttendance(t, app, student.ID, "2026-03-03", "present"); code != fiber.StatusCreated {
		t.Fatalf("re-mark after delete: got %d, want %d", code, fiber.StatusCreated)
	}
}
