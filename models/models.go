package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// Role values for User.Role. A user has exactly one role and it never
// changes after creation; update handlers drop the field entirely.
const (
	RolePrincipal = "principal"
	RoleTeacher   = "teacher"
	RoleStudent   = "student"
)

// User model
type User struct {
	BaseModel
	Username  string `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password  string `json:"-" gorm:"size:255;not null"`
	Email     string `json:"email" gorm:"size:255;uniqueIndex"`
	FirstName string `json:"first_name" gorm:"size:100"`
	LastName  string `json:"last_name" gorm:"size:100"`
	Role      string `json:"role" gorm:"size:20;not null;default:'student';type:enum('principal','teacher','student')"` // principal, teacher, student
	Active    bool   `json:"active" gorm:"default:true"`

	// Relationships
	Profile *UserProfile `json:"profile,omitempty" gorm:"foreignKey:UserID"`
	Student *Student     `json:"student,omitempty" gorm:"foreignKey:UserID"`
	Teacher *Teacher     `json:"teacher,omitempty" gorm:"foreignKey:UserID"`
}

// UserProfile holds contact/demographic extras. Created lazily on the
// first profile write, so a user is not guaranteed to have one.
type UserProfile struct {
	BaseModel
	UserID    uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	Phone     string `json:"phone" gorm:"size:20"`
	Address   string `json:"address" gorm:"size:500"`
	ClassName string `json:"class_name" gorm:"size:100"` // student-specific
	Subject   string `json:"subject" gorm:"size:100"`    // teacher-specific

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// SchoolClass model. TeacherID references a User whose role must be
// teacher; the check lives in the handlers, not the schema.
type SchoolClass struct {
	BaseModel
	Name      string `json:"name" gorm:"size:100;not null;uniqueIndex"`
	TeacherID *uint  `json:"teacher_id"`

	// Relationships
	Teacher  *User     `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
	Students []Student `json:"students,omitempty" gorm:"foreignKey:SchoolClassID"`
}

// Student model
type Student struct {
	BaseModel
	UserID        uint  `json:"user_id" gorm:"uniqueIndex;not null"`
	SchoolClassID *uint `json:"school_class_id"`

	// Relationships
	User        User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	SchoolClass *SchoolClass `json:"school_class,omitempty" gorm:"foreignKey:SchoolClassID"`
}

// Teacher model
type Teacher struct {
	BaseModel
	UserID          uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	Qualification   string `json:"qualification" gorm:"size:255"`
	ExperienceYears int    `json:"experience_years"`
	Specialization  string `json:"specialization" gorm:"size:100"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Period is a numbered daily time slot. Times are stored as "HH:MM:SS".
type Period struct {
	BaseModel
	PeriodNumber int    `json:"period_number" gorm:"not null;uniqueIndex"`
	StartTime    string `json:"start_time" gorm:"size:8;not null"`
	EndTime      string `json:"end_time" gorm:"size:8;not null"`
}

// Day-of-week values for Timetable.DayOfWeek
const (
	DayMonday    = "MON"
	DayTuesday   = "TUE"
	DayWednesday = "WED"
	DayThursday  = "THU"
	DayFriday    = "FRI"
)

// Timetable entry binding (class, day, start, end) to a subject and an
// optional teacher. The class reference is nulled when the class goes away.
type Timetable struct {
	BaseModel
	SchoolClassID *uint  `json:"school_class_id"`
	DayOfWeek     string `json:"day_of_week" gorm:"size:3;not null;type:enum('MON','TUE','WED','THU','FRI')"`
	StartTime     string `json:"start_time" gorm:"size:8;not null"`
	EndTime       string `json:"end_time" gorm:"size:8;not null"`
	Subject       string `json:"subject" gorm:"size:100;not null"`
	TeacherID     *uint  `json:"teacher_id"`

	// Relationships
	SchoolClass *SchoolClass `json:"school_class,omitempty" gorm:"foreignKey:SchoolClassID"`
	Teacher     *Teacher     `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
}

// Attendance status values
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
)

// Attendance model, one record per (student, date)
type Attendance struct {
	BaseModel
	StudentID uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_attendance_student_date"`
	Date      time.Time `json:"date" gorm:"type:date;not null;uniqueIndex:idx_attendance_student_date"`
	Status    string    `json:"status" gorm:"size:10;not null;type:enum('present','absent','late')"`

	// Relationships
	Student Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// FeeType is a priced fee category
type FeeType struct {
	BaseModel
	Name     string  `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Amount   float64 `json:"amount" gorm:"type:decimal(10,2);not null"`
	Category string  `json:"category" gorm:"size:50"`
}

// Fee status values
const (
	FeeUnpaid  = "unpaid"
	FeePartial = "partial"
	FeePaid    = "paid"
)

// Fee model. Amount is copied from the fee type at creation, so later
// price changes never touch existing bills.
type Fee struct {
	BaseModel
	StudentID uint      `json:"student_id" gorm:"not null"`
	Amount    float64   `json:"amount" gorm:"type:decimal(10,2);not null"`
	DueDate   time.Time `json:"due_date" gorm:"type:date;not null"`
	Status    string    `json:"status" gorm:"size:10;not null;default:'unpaid';type:enum('unpaid','partial','paid')"`

	// Relationships
	Student Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// Assignment is a class-scoped gradable unit
type Assignment struct {
	BaseModel
	SchoolClassID uint      `json:"school_class_id" gorm:"not null"`
	Title         string    `json:"title" gorm:"size:255;not null"`
	Description   string    `json:"description" gorm:"type:text"`
	DueDate       time.Time `json:"due_date" gorm:"type:date;not null"`

	// Relationships
	SchoolClass SchoolClass `json:"school_class,omitempty" gorm:"foreignKey:SchoolClassID"`
}

// Grade is one student's score on one assignment. Re-grading appends a
// new row rather than replacing the old one.
type Grade struct {
	BaseModel
	StudentID    uint `json:"student_id" gorm:"not null"`
	AssignmentID uint `json:"assignment_id" gorm:"not null"`
	Score        int  `json:"score" gorm:"not null"`

	// Relationships
	Student    Student    `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Assignment Assignment `json:"assignment,omitempty" gorm:"foreignKey:AssignmentID"`
}

// LeaveRequest status values
const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

// LeaveRequest model
type LeaveRequest struct {
	BaseModel
	UserID    uint      `json:"user_id" gorm:"not null"`
	StartDate time.Time `json:"start_date" gorm:"type:date;not null"`
	EndDate   time.Time `json:"end_date" gorm:"type:date;not null"`
	Reason    string    `json:"reason" gorm:"type:text;not null"`
	Status    string    `json:"status" gorm:"size:10;not null;default:'pending';type:enum('pending','approved','rejected')"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Notification model
type Notification struct {
	BaseModel
	UserID  uint       `json:"user_id" gorm:"not null"`
	Title   string     `json:"title" gorm:"size:255;not null"`
	Message string     `json:"message" gorm:"type:text;not null"`
	Type    string     `json:"type" gorm:"size:20;not null;default:'info';type:enum('info','warning','error','success')"` // info, warning, error, success
	Read    bool       `json:"read" gorm:"default:false"`
	ReadAt  *time.Time `json:"read_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Task status values
const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
	TaskCancelled  = "cancelled"
)

// Task is a teacher-owned to-do item. CompletedAt is stamped by the
// mark-completed operation and stays nil for every other status.
type Task struct {
	BaseModel
	TeacherID   uint       `json:"teacher_id" gorm:"not null"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description" gorm:"type:text"`
	TaskType    string     `json:"task_type" gorm:"size:50;type:enum('lesson_planning','grade_assignments','attendance_marking','parent_meetings','class_preparation','administrative','other')"`
	Priority    string     `json:"priority" gorm:"size:10;not null;default:'medium';type:enum('low','medium','high','urgent')"`
	DueDate     time.Time  `json:"due_date" gorm:"type:date"`
	Status      string     `json:"status" gorm:"size:15;not null;default:'pending';type:enum('pending','in_progress','completed','cancelled')"`
	CompletedAt *time.Time `json:"completed_at"`

	// Relationships
	Teacher Teacher `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
}

// ReportRun records one report generation: where the artifacts landed,
// what it covered, and whether the run finished.
type ReportRun struct {
	BaseModel
	RunID      string     `json:"run_id" gorm:"size:64;not null;uniqueIndex"`
	ReportType string     `json:"report_type" gorm:"size:20;not null"` // all, academic, financial, attendance, performance
	Format     string     `json:"format" gorm:"size:10;not null"`      // json, csv, html, xlsx
	Directory  string     `json:"directory" gorm:"size:500;not null"`
	S3Key      string     `json:"s3_key" gorm:"size:500"`
	Status     string     `json:"status" gorm:"size:20;not null;default:'pending';type:enum('pending','completed','failed')"`
	Error      string     `json:"error" gorm:"type:text"`
	FinishedAt *time.Time `json:"finished_at"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
