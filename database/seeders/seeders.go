package seeders

import (
	"fmt"
	"math/rand"
	"time"

	"schooladmin/models"
	"schooladmin/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeedDemoData populates an empty database with a realistic demo
// school: one principal, twelve teachers with classes, students with
// fees, attendance and grades, plus leave requests, notifications and
// teacher tasks. Every account's password is "demo". The seeder is a
// no-op when users already exist.
func SeedDemoData(db *gorm.DB) error {
	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		logrus.Info("Skipping demo seed, users already exist")
		return nil
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	password, err := utils.HashPassword("demo")
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := seedPrincipal(tx, password); err != nil {
			return err
		}
		if err := seedPeriods(tx); err != nil {
			return err
		}
		teachers, err := seedTeachers(tx, password, 12)
		if err != nil {
			return err
		}
		classes, err := seedClasses(tx, teachers)
		if err != nil {
			return err
		}
		if err := seedFeeTypes(tx); err != nil {
			return err
		}
		if err := seedTimetables(tx, classes, teachers, rng); err != nil {
			return err
		}
		if err := seedStudents(tx, classes, password, rng); err != nil {
			return err
		}
		if err := seedLeaveRequests(tx, teachers, rng); err != nil {
			return err
		}
		if err := seedNotifications(tx, teachers, rng); err != nil {
			return err
		}
		if err := seedTasks(tx, teachers, rng); err != nil {
			return err
		}
		logrus.Info("Demo data seeded, password for all users is \"demo\"")
		return nil
	})
}

func seedPrincipal(tx *gorm.DB, password string) error {
	principal := models.User{
		Username:  "principal",
		Password:  password,
		Email:     "principal@school.edu",
		FirstName: "Admin",
		LastName:  "Principal",
		Role:      models.RolePrincipal,
		Active:    true,
	}
	if err := tx.Create(&principal).Error; err != nil {
		return err
	}
	return tx.Create(&models.UserProfile{
		UserID:  principal.ID,
		Phone:   "555-0100",
		Address: "1 School Street",
	}).Error
}

func seedPeriods(tx *gorm.DB) error {
	starts := []string{"08:00:00", "09:00:00", "10:00:00", "11:00:00", "13:00:00", "14:00:00", "15:00:00", "16:00:00"}
	ends := []string{"08:50:00", "09:50:00", "10:50:00", "11:50:00", "13:50:00", "14:50:00", "15:50:00", "16:50:00"}
	for i := range starts {
		period := models.Period{PeriodNumber: i + 1, StartTime: starts[i], EndTime: ends[i]}
		if err := tx.Create(&period).Error; err != nil {
			return err
		}
	}
	return nil
}

var teacherSubjects = []string{
	"Mathematics", "Physics", "Chemistry", "Biology", "History", "Geography",
	"English", "Art", "Music", "Physical Education", "Computer Science", "Economics",
}

func seedTeachers(tx *gorm.DB, password string, count int) ([]models.Teacher, error) {
	teachers := make([]models.Teacher, 0, count)
	for i := 0; i < count; i++ {
		username := fmt.Sprintf("teacher%d", i+1)
		user := models.User{
			Username:  username,
			Password:  password,
			Email:     username + "@school.edu",
			FirstName: "Teacher",
			LastName:  fmt.Sprintf("Number%d", i+1),
			Role:      models.RoleTeacher,
			Active:    true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return nil, err
		}
		if err := tx.Create(&models.UserProfile{
			UserID:  user.ID,
			Subject: teacherSubjects[i%len(teacherSubjects)],
			Phone:   fmt.Sprintf("555-01%02d", i+1),
		}).Error; err != nil {
			return nil, err
		}
		teacher := models.Teacher{
			UserID:          user.ID,
			Qualification:   "B.Ed",
			ExperienceYears: 2 + i,
			Specialization:  teacherSubjects[i%len(teacherSubjects)],
		}
		if err := tx.Create(&teacher).Error; err != nil {
			return nil, err
		}
		teacher.User = user
		teachers = append(teachers, teacher)
	}
	return teachers, nil
}

func seedClasses(tx *gorm.DB, teachers []models.Teacher) ([]models.SchoolClass, error) {
	classes := make([]models.SchoolClass, 0, len(teachers))
	for i, teacher := range teachers {
		userID := teacher.UserID
		class := models.SchoolClass{
			Name:      fmt.Sprintf("Grade %d", i+1),
			TeacherID: &userID,
		}
		if err := tx.Create(&class).Error; err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}
	return classes, nil
}

func seedFeeTypes(tx *gorm.DB) error {
	feeTypes := []models.FeeType{
		{Category: "Admission", Name: "Registration Fee", Amount: 500},
		{Category: "Admission", Name: "Admission Fee", Amount: 5000},
		{Category: "Admission", Name: "Caution Deposit", Amount: 2000},
		{Category: "Annual", Name: "Annual Development Fee", Amount: 3000},
		{Category: "Annual", Name: "Library & Lab Fee", Amount: 2000},
		{Category: "Annual", Name: "IT Resources", Amount: 1500},
		{Category: "Annual", Name: "Activity & Sports Fee", Amount: 2500},
		{Category: "Tuition", Name: "Tuition (Pre-Primary)", Amount: 2000},
		{Category: "Tuition", Name: "Tuition (Primary)", Amount: 3000},
		{Category: "Transport", Name: "Transport (<5km)", Amount: 1000},
		{Category: "Transport", Name: "Transport (5-10km)", Amount: 1500},
	}
	for i := range feeTypes {
		if err := tx.Create(&feeTypes[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

var timetableSubjects = []string{"Mathematics", "Physics", "Chemistry", "English", "History", "Art"}

func seedTimetables(tx *gorm.DB, classes []models.SchoolClass, teachers []models.Teacher, rng *rand.Rand) error {
	var periods []models.Period
	if err := tx.Order("period_number").Find(&periods).Error; err != nil {
		return err
	}
	days := []string{models.DayMonday, models.DayTuesday, models.DayWednesday, models.DayThursday, models.DayFriday}

	for _, class := range classes {
		classID := class.ID
		for _, day := range days {
			// Five to eight periods per day, in grid order.
			n := 5 + rng.Intn(len(periods)-4)
			for _, period := range periods[:n] {
				teacher := teachers[rng.Intn(len(teachers))]
				teacherID := teacher.ID
				entry := models.Timetable{
					SchoolClassID: &classID,
					DayOfWeek:     day,
					StartTime:     period.StartTime,
					EndTime:       period.EndTime,
					Subject:       timetableSubjects[rng.Intn(len(timetableSubjects))],
					TeacherID:     &teacherID,
				}
				if err := tx.Create(&entry).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func seedStudents(tx *gorm.DB, classes []models.SchoolClass, password string, rng *rand.Rand) error {
	var feeTypes []models.FeeType
	if err := tx.Find(&feeTypes).Error; err != nil {
		return err
	}

	feeStatuses := []string{models.FeeUnpaid, models.FeePartial, models.FeePaid}
	attendanceStatuses := []string{models.AttendancePresent, models.AttendanceAbsent, models.AttendanceLate}
	studentSeq := 0

	for _, class := range classes {
		classID := class.ID

		assignments := make([]models.Assignment, 0, 4)
		for i := 0; i < 3+rng.Intn(3); i++ {
			assignment := models.Assignment{
				SchoolClassID: class.ID,
				Title:         fmt.Sprintf("%s Assignment %d", class.Name, i+1),
				Description:   "Complete the exercises and submit before the due date.",
				DueDate:       time.Now().AddDate(0, 0, 10+rng.Intn(50)),
			}
			if err := tx.Create(&assignment).Error; err != nil {
				return err
			}
			assignments = append(assignments, assignment)
		}

		for i := 0; i < 25+rng.Intn(11); i++ {
			studentSeq++
			username := fmt.Sprintf("student%d", studentSeq)
			user := models.User{
				Username:  username,
				Password:  password,
				Email:     username + "@school.edu",
				FirstName: "Student",
				LastName:  fmt.Sprintf("Number%d", studentSeq),
				Role:      models.RoleStudent,
				Active:    true,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.UserProfile{
				UserID:    user.ID,
				ClassName: class.Name,
			}).Error; err != nil {
				return err
			}
			student := models.Student{UserID: user.ID, SchoolClassID: &classID}
			if err := tx.Create(&student).Error; err != nil {
				return err
			}

			for f := 0; f < 2+rng.Intn(4); f++ {
				feeType := feeTypes[rng.Intn(len(feeTypes))]
				fee := models.Fee{
					StudentID: student.ID,
					Amount:    feeType.Amount,
					DueDate:   time.Now().AddDate(0, 0, rng.Intn(91)-45),
					Status:    feeStatuses[rng.Intn(len(feeStatuses))],
				}
				if err := tx.Create(&fee).Error; err != nil {
					return err
				}
			}

			// One attendance record per school day over the last three weeks.
			for d := 1; d <= 21; d++ {
				date := time.Now().AddDate(0, 0, -d)
				if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
					continue
				}
				record := models.Attendance{
					StudentID: student.ID,
					Date:      date,
					Status:    attendanceStatuses[rng.Intn(len(attendanceStatuses))],
				}
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
			}

			for _, assignment := range assignments {
				grade := models.Grade{
					StudentID:    student.ID,
					AssignmentID: assignment.ID,
					Score:        60 + rng.Intn(41),
				}
				if err := tx.Create(&grade).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func seedLeaveRequests(tx *gorm.DB, teachers []models.Teacher, rng *rand.Rand) error {
	reasons := []string{
		"Medical appointment",
		"Family emergency",
		"Personal leave",
		"Attending a training workshop",
		"Wedding in the family",
	}
	statuses := []string{models.LeavePending, models.LeaveApproved, models.LeaveRejected}

	for i := 0; i < 5; i++ {
		teacher := teachers[rng.Intn(len(teachers))]
		start := time.Now().AddDate(0, 0, 3+rng.Intn(20))
		request := models.LeaveRequest{
			UserID:    teacher.UserID,
			StartDate: start,
			EndDate:   start.AddDate(0, 0, rng.Intn(3)),
			Reason:    reasons[i%len(reasons)],
			Status:    statuses[rng.Intn(len(statuses))],
		}
		if err := tx.Create(&request).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedNotifications(tx *gorm.DB, teachers []models.Teacher, rng *rand.Rand) error {
	samples := []models.Notification{
		{Title: "Welcome", Message: "Welcome to the school administration system", Type: "info"},
		{Title: "Staff Meeting", Message: "Staff meeting scheduled for Friday at 15:00", Type: "info"},
		{Title: "Fee Collection", Message: "Quarterly fee collection starts next week", Type: "warning"},
		{Title: "Report Cards", Message: "Report cards are due by end of month", Type: "warning"},
		{Title: "System Update", Message: "Timetable module was updated successfully", Type: "success"},
	}

	for i := 0; i < 10; i++ {
		tpl := samples[i%len(samples)]
		notification := models.Notification{
			UserID:  teachers[rng.Intn(len(teachers))].UserID,
			Title:   tpl.Title,
			Message: tpl.Message,
			Type:    tpl.Type,
		}
		if err := tx.Create(&notification).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedTasks(tx *gorm.DB, teachers []models.Teacher, rng *rand.Rand) error {
	templates := []models.Task{
		{Title: "Prepare lesson plan for Mathematics", Description: "Create detailed lesson plan for algebra chapter", TaskType: "lesson_planning", Priority: "high"},
		{Title: "Grade assignment submissions", Description: "Review and grade student assignments for the week", TaskType: "grade_assignments", Priority: "medium"},
		{Title: "Update attendance records", Description: "Mark attendance for today's classes", TaskType: "attendance_marking", Priority: "high"},
		{Title: "Parent-teacher meeting preparation", Description: "Prepare reports and materials for parent meetings", TaskType: "parent_meetings", Priority: "medium"},
		{Title: "Organize classroom materials", Description: "Set up materials for next week's lessons", TaskType: "class_preparation", Priority: "low"},
	}

	for _, teacher := range teachers {
		for i := 0; i < 2+rng.Intn(3); i++ {
			tpl := templates[rng.Intn(len(templates))]
			task := models.Task{
				TeacherID:   teacher.ID,
				Title:       tpl.Title,
				Description: tpl.Description,
				TaskType:    tpl.TaskType,
				Priority:    tpl.Priority,
				DueDate:     time.Now().AddDate(0, 0, rng.Intn(14)),
				Status:      models.TaskPending,
			}
			if err := tx.Create(&task).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
