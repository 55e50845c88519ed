package reports

import (
	"time"

	"schooladmin/models"

	"gorm.io/gorm"
)

// Snapshot is the flattened slice of the database the builders work
// from. Loading it once keeps the builders free of query logic.
type Snapshot struct {
	Students    []StudentRecord
	Classes     []ClassRecord
	Teachers    []TeacherRecord
	Subjects    []SubjectCount
	Fees        []FeeRecord
	Attendance  []AttendanceRecord
	Grades      []GradeRecord
	Assignments []AssignmentRecord
	Totals      Totals
}

// StudentRecord carries one student's identity plus the aggregates the
// academic, attendance and performance reports all need.
type StudentRecord struct {
	FirstName  string
	LastName   string
	Username   string
	ClassName  string
	JoinedAt   time.Time
	Total      int64 // attendance records
	Present    int64
	Absent     int64
	Late       int64
	GradeCount int64
	AvgScore   *float64
}

type ClassRecord struct {
	Name         string
	StudentCount int64
}

type TeacherRecord struct {
	FirstName  string
	LastName   string
	Username   string
	ClassCount int64
}

type SubjectCount struct {
	Subject string
	Count   int64
}

type FeeRecord struct {
	Amount    float64
	Status    string
	DueDate   time.Time
	ClassName string
}

type AttendanceRecord struct {
	Date   time.Time
	Status string
}

type GradeRecord struct {
	Score int
}

type AssignmentRecord struct {
	Title       string
	AvgScore    *float64
	Submissions int64
}

// Totals are the headline counts for the summary report.
type Totals struct {
	Students          int64
	Teachers          int64
	Classes           int64
	Fees              int64
	PaidFees          int64
	PendingFees       int64
	AttendanceRecords int64
	Assignments       int64
	Grades            int64
	Tasks             int64
	PendingLeaves     int64
	ActiveUsers       int64
	NewStudents30d    int64
	NewFees30d        int64
	NewAssignments30d int64
	CompletedTasks30d int64
}

// LoadSnapshot reads everything the report builders need in one pass.
func LoadSnapshot(db *gorm.DB, now time.Time) (*Snapshot, error) {
	snap := &Snapshot{}

	var students []models.Student
	if err := db.Preload("User").Preload("SchoolClass").Find(&students).Error; err != nil {
		return nil, err
	}

	type attnRow struct {
		StudentID uint
		Status    string
		N         int64
	}
	var attnRows []attnRow
	if err := db.Model(&models.Attendance{}).
		Select("student_id, status, COUNT(*) AS n").
		Group("student_id, status").
		Scan(&attnRows).Error; err != nil {
		return nil, err
	}
	attnByStudent := make(map[uint]map[string]int64)
	for _, r := range attnRows {
		if attnByStudent[r.StudentID] == nil {
			attnByStudent[r.StudentID] = make(map[string]int64)
		}
		attnByStudent[r.StudentID][r.Status] = r.N
	}

	type gradeRow struct {
		StudentID uint
		N         int64
		Avg       float64
	}
	var gradeRows []gradeRow
	if err := db.Model(&models.Grade{}).
		Select("student_id, COUNT(*) AS n, AVG(score) AS avg").
		Group("student_id").
		Scan(&gradeRows).Error; err != nil {
		return nil, err
	}
	gradesByStudent := make(map[uint]gradeRow, len(gradeRows))
	for _, r := range gradeRows {
		gradesByStudent[r.StudentID] = r
	}

	for _, s := range students {
		rec := StudentRecord{
			FirstName: s.User.FirstName,
			LastName:  s.User.LastName,
			Username:  s.User.Username,
			JoinedAt:  s.User.CreatedAt,
		}
		if s.SchoolClass != nil {
			rec.ClassName = s.SchoolClass.Name
		}
		if counts := attnByStudent[s.ID]; counts != nil {
			rec.Present = counts[models.AttendancePresent]
			rec.Absent = counts[models.AttendanceAbsent]
			rec.Late = counts[models.AttendanceLate]
			rec.Total = rec.Present + rec.Absent + rec.Late
		}
		if g, ok := gradesByStudent[s.ID]; ok {
			rec.GradeCount = g.N
			avg := g.Avg
			rec.AvgScore = &avg
		}
		snap.Students = append(snap.Students, rec)
	}

	var classRows []ClassRecord
	if err := db.Model(&models.SchoolClass{}).
		Select("school_classes.name AS name, COUNT(students.id) AS student_count").
		Joins("LEFT JOIN students ON students.school_class_id = school_classes.id AND students.deleted_at IS NULL").
		Group("school_classes.id, school_classes.name").
		Scan(&classRows).Error; err != nil {
		return nil, err
	}
	snap.Classes = classRows

	var teacherRows []TeacherRecord
	if err := db.Model(&models.Teacher{}).
		Select("users.first_name AS first_name, users.last_name AS last_name, users.username AS username, COUNT(school_classes.id) AS class_count").
		Joins("JOIN users ON users.id = teachers.user_id").
		Joins("LEFT JOIN school_classes ON school_classes.teacher_id = users.id AND school_classes.deleted_at IS NULL").
		Group("teachers.id, users.first_name, users.last_name, users.username").
		Scan(&teacherRows).Error; err != nil {
		return nil, err
	}
	snap.Teachers = teacherRows

	var subjectRows []SubjectCount
	if err := db.Model(&models.Timetable{}).
		Select("subject, COUNT(*) AS count").
		Group("subject").
		Order("count DESC").
		Scan(&subjectRows).Error; err != nil {
		return nil, err
	}
	snap.Subjects = subjectRows

	var feeRows []FeeRecord
	if err := db.Model(&models.Fee{}).
		Select("fees.amount AS amount, fees.status AS status, fees.due_date AS due_date, school_classes.name AS class_name").
		Joins("JOIN students ON students.id = fees.student_id").
		Joins("LEFT JOIN school_classes ON school_classes.id = students.school_class_id").
		Scan(&feeRows).Error; err != nil {
		return nil, err
	}
	snap.Fees = feeRows

	var attendance []AttendanceRecord
	if err := db.Model(&models.Attendance{}).
		Select("date, status").
		Scan(&attendance).Error; err != nil {
		return nil, err
	}
	snap.Attendance = attendance

	var grades []GradeRecord
	if err := db.Model(&models.Grade{}).Select("score").Scan(&grades).Error; err != nil {
		return nil, err
	}
	snap.Grades = grades

	var assignmentRows []AssignmentRecord
	if err := db.Model(&models.Assignment{}).
		Select("assignments.title AS title, AVG(grades.score) AS avg_score, COUNT(grades.id) AS submissions").
		Joins("LEFT JOIN grades ON grades.assignment_id = assignments.id AND grades.deleted_at IS NULL").
		Group("assignments.id, assignments.title").
		Scan(&assignmentRows).Error; err != nil {
		return nil, err
	}
	snap.Assignments = assignmentRows

	if err := loadTotals(db, now, &snap.Totals); err != nil {
		return nil, err
	}
	return snap, nil
}

type countTarget struct {
	dest  *int64
	query *gorm.DB
}

func loadTotals(db *gorm.DB, now time.Time, t *Totals) error {
	thirtyDaysAgo := now.AddDate(0, 0, -30)

	counts := []countTarget{
		{&t.Students, db.Model(&models.Student{})},
		{&t.Teachers, db.Model(&models.Teacher{})},
		{&t.Classes, db.Model(&models.SchoolClass{})},
		{&t.Fees, db.Model(&models.Fee{})},
		{&t.PaidFees, db.Model(&models.Fee{}).Where("status = ?", models.FeePaid)},
		{&t.PendingFees, db.Model(&models.Fee{}).Where("status IN ?", []string{models.FeeUnpaid, models.FeePartial})},
		{&t.AttendanceRecords, db.Model(&models.Attendance{})},
		{&t.Assignments, db.Model(&models.Assignment{})},
		{&t.Grades, db.Model(&models.Grade{})},
		{&t.Tasks, db.Model(&models.Task{})},
		{&t.PendingLeaves, db.Model(&models.LeaveRequest{}).Where("status = ?", models.LeavePending)},
		{&t.ActiveUsers, db.Model(&models.User{}).Where("active = ?", true)},
		{&t.NewStudents30d, db.Model(&models.Student{}).Where("created_at >= ?", thirtyDaysAgo)},
		{&t.NewFees30d, db.Model(&models.Fee{}).Where("due_date >= ?", thirtyDaysAgo)},
		{&t.NewAssignments30d, db.Model(&models.Assignment{}).Where("due_date >= ?", thirtyDaysAgo)},
		{&t.CompletedTasks30d, db.Model(&models.Task{}).Where("completed_at >= ? AND status = ?", thirtyDaysAgo, models.TaskCompleted)},
	}

	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return err
		}
	}
	return nil
}
