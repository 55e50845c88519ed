package controllers

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"schooladmin/database"
	"schooladmin/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB swaps database.DB for an in-memory sqlite database holding
// the tables these handler tests touch. The schema is created with
// plain DDL because the production column types are MySQL-specific.
func openTestDB(t *testing.T, ddl ...string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// A single connection keeps every statement on the same memory DB.
	sqlDB.SetMaxOpenConns(1)

	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("ddl: %v", err)
		}
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		sqlDB.Close()
	})
	return db
}

const (
	usersDDL = `CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		username TEXT NOT NULL, password TEXT NOT NULL, email TEXT,
		first_name TEXT, last_name TEXT, role TEXT NOT NULL, active BOOLEAN
	)`
	userProfilesDDL = `CREATE TABLE user_profiles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		user_id INTEGER NOT NULL, phone TEXT, address TEXT,
		class_name TEXT, subject TEXT
	)`
	studentsDDL = `CREATE TABLE students (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		user_id INTEGER NOT NULL, school_class_id INTEGER
	)`
	teachersDDL = `CREATE TABLE teachers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		user_id INTEGER NOT NULL, qualification TEXT,
		experience_years INTEGER, specialization TEXT
	)`
	activityLogsDDL = `CREATE TABLE activity_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
		user_id INTEGER, action TEXT, resource TEXT, resource_id INTEGER,
		details TEXT, ip_address TEXT, user_agent TEXT
	)`
)

// asUser injects an authenticated user the way the JWT middleware does.
func asUser(user *models.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", user)
		return c.Next()
	}
}

func TestDeleteUserRemovesDependentRows(t *testing.T) {
	db := openTestDB(t, usersDDL, userProfilesDDL, studentsDDL, teachersDDL, activityLogsDDL)

	principal := models.User{Username: "principal", Password: "x", Role: models.RolePrincipal, Active: true}
	if err := db.Create(&principal).Error; err != nil {
		t.Fatalf("seed principal: %v", err)
	}

	stuUser := models.User{Username: "stu1", Password: "x", Role: models.RoleStudent, Active: true}
	if err := db.Create(&stuUser).Error; err != nil {
		t.Fatalf("seed student user: %v", err)
	}
	if err := db.Create(&models.UserProfile{UserID: stuUser.ID, Phone: "555-0101"}).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	if err := db.Create(&models.Student{UserID: stuUser.ID}).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}

	app := fiber.New()
	uc := &UserController{}
	app.Delete("/api/users/:id", asUser(&principal), uc.DeleteUser)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/users/%d", stuUser.ID), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status: got %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	// Unscoped counts catch rows that were merely soft-deleted.
	var users, students, profiles int64
	db.Unscoped().Model(&models.User{}).Where("id = ?", stuUser.ID).Count(&users)
	db.Unscoped().Model(&models.Student{}).Where("user_id = ?", stuUser.ID).Count(&students)
	db.Unscoped().Model(&models.UserProfile{}).Where("user_id = ?", stuUser.ID).Count(&profiles)
	if users != 0 || students != 0 || profiles != 0 {
		t.Fatalf("rows left behind: users=%d students=%d profiles=%d", users, students, profiles)
	}
}

func TestDeleteUserRemovesTeacherRow(t *testing.T) {
	db := openTestDB(t, usersDDL, userProfilesDDL, studentsDDL, teachersDDL, activityLogsDDL)

	principal := models.User{Username: "principal", Password: "x", Role: models.RolePrincipal, Active: true}
	if err := db.Create(&principal).Error; err != nil {
		t.Fatalf("seed principal: %v", err)
	}
	teaUser := models.User{Username: "tea1", Password: "x", Role: models.RoleTeacher, Active: true}
	if err := db.Create(&teaUser).Error; err != nil {
		t.Fatalf("seed teacher user: %v", err)
	}
	if err := db.Create(&models.Teacher{UserID: teaUser.ID, Specialization: "Mathematics"}).Error; err != nil {
		t.Fatalf("seed teacher: %v", err)
	}

	app := fiber.New()
	uc := &UserController{}
	app.Delete("/api/users/:id", asUser(&principal), uc.DeleteUser)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/users/%d", teaUser.ID), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status: got %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	var users, teachers int64
	db.Unscoped().Model(&models.User{}).Where("id = ?", teaUser.ID).Count(&users)
	db.Unscoped().Model(&models.Teacher{}).Where("user_id = ?", teaUser.ID).Count(&teachers)
	if users != 0 || teachers != 0 {
		t.Fatalf("rows left behind: users=%d teachers=%d", users, teachers)
	}
}

func TestDeleteUserRejectsSelf(t *testing.T) {
	db := openTestDB(t, usersDDL, userProfilesDDL, studentsDDL, teachersDDL, activityLogsDDL)

	principal := models.User{Username: "principal", Password: "x", Role: models.RolePrincipal, Active: true}
	if err := db.Create(&principal).Error; err != nil {
		t.Fatalf("seed principal: %v", err)
	}

	app := fiber.New()
	uc := &UserController{}
	app.Delete("/api/users/:id", asUser(&principal), uc.DeleteUser)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/users/%d", principal.ID), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", resp.StatusCode, fiber.StatusBadRequest)
	}

	var users int64
	db.Model(&models.User{}).Where("id = ?", principal.ID).Count(&users)
	if users != 1 {
		t.Fatalf("principal should survive self-delete attempt")
	}
}
