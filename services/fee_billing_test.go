package services

import (
	"fmt"
	"testing"
	"time"

	"schooladmin/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openBillingDB builds an in-memory sqlite database for fee billing
// tests. The fees table refuses student ids of 900 and above, which
// lets a test force an insert failure partway through a batch.
func openBillingDB(t *testing.T) *gorm.DB {
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
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	ddl := []string{
		`CREATE TABLE students (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
			user_id INTEGER NOT NULL, school_class_id INTEGER
		)`,
		`CREATE TABLE fees (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at DATETIME, updated_at DATETIME, deleted_at DATETIME,
			student_id INTEGER NOT NULL CHECK (student_id < 900),
			amount NUMERIC NOT NULL, due_date DATETIME NOT NULL, status TEXT NOT NULL
		)`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("ddl: %v", err)
		}
	}
	return db
}

func seedClassMember(t *testing.T, db *gorm.DB, id, userID uint, classID uint) {
	t.Helper()
	s := models.Student{BaseModel: models.BaseModel{ID: id}, UserID: userID, SchoolClassID: &classID}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("seed student %d: %v", id, err)
	}
}

func TestCreateClassFeeBillsEveryMember(t *testing.T) {
	db := openBillingDB(t)
	seedClassMember(t, db, 1, 11, 7)
	seedClassMember(t, db, 2, 12, 7)

	fs := &FeeService{db: db}
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	fees, err := fs.CreateClassFee(7, 1200, due)
	if err != nil {
		t.Fatalf("CreateClassFee: %v", err)
	}
	if len(fees) != 2 {
		t.Fatalf("fees returned: got %d, want 2", len(fees))
	}
	for _, fee := range fees {
		if fee.Status != models.FeeUnpaid {
			t.Fatalf("fee %d status: got %q, want %q", fee.ID, fee.Status, models.FeeUnpaid)
		}
		if fee.Amount != 1200 {
			t.Fatalf("fee %d amount: got %v, want 1200", fee.ID, fee.Amount)
		}
	}

	var count int64
	db.Model(&models.Fee{}).Count(&count)
	if count != 2 {
		t.Fatalf("fee rows: got %d, want 2", count)
	}
}

func TestCreateClassFeeEmptyClass(t *testing.T) {
	db := openBillingDB(t)

	fs := &FeeService{db: db}
	_, err := fs.CreateClassFee(7, 1200, time.Now())
	if err != ErrEmptyClass {
		t.Fatalf("error: got %v, want %v", err, ErrEmptyClass)
	}
}

func TestCreateClassFeeIsAllOrNothing(t *testing.T) {
	db := openBillingDB(t)
	seedClassMember(t, db, 1, 11, 7)
	seedClassMember(t, db, 2, 12, 7)
	// This member's fee insert violates the check constraint, so the
	// batch fails after the first two inserts succeeded.
	seedClassMember(t, db, 901, 13, 7)

	fs := &FeeService{db: db}
	_, err := fs.CreateClassFee(7, 1200, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatalf("expected the batch to fail")
	}

	var count int64
	db.Unscoped().Model(&models.Fee{}).Count(&count)
	if count != 0 {
		t.Fatalf("fee rows after rollback: got %d, want 0", count)
	}
}
