package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"schooladmin/database"
	"schooladmin/models"

	"gorm.io/gorm"
)

const dashboardCacheTTL = 60 * time.Second

// DashboardService assembles the role-shaped landing page payloads.
// Results are cached per user in Redis for a minute since the queries
// span most of the schema.
type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService() *DashboardService {
	return &DashboardService{db: database.GetDB()}
}

// SubjectTeacher is one distinct (subject, teacher) pairing taught in a
// class, derived from the timetable.
type SubjectTeacher struct {
	Subject     string `json:"subject"`
	TeacherName string `json:"teacher_name"`
}

// timetableEntry is the slice of a timetable row that matters for
// subject listing.
type timetableEntry struct {
	Subject     string
	TeacherName string
}

// DistinctSubjectTeachers reduces timetable rows to the unique
// (subject, teacher) pairs, sorted by subject then teacher name.
func DistinctSubjectTeachers(entries []timetableEntry) []SubjectTeacher {
	seen := make(map[SubjectTeacher]struct{}, len(entries))
	var pairs []SubjectTeacher
	for _, e := range entries {
		if e.Subject == "" {
			continue
		}
		pair := SubjectTeacher{Subject: e.Subject, TeacherName: e.TeacherName}
		if _, ok := seen[pair]; ok {
			continue
		}
		seen[pair] = struct{}{}
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Subject != pairs[j].Subject {
			return pairs[i].Subject < pairs[j].Subject
		}
		return pairs[i].TeacherName < pairs[j].TeacherName
	})
	return pairs
}

// SubjectsForClass lists the distinct (subject, teacher) pairs on a
// class timetable.
func (ds *DashboardService) SubjectsForClass(classID uint) ([]SubjectTeacher, error) {
	var rows []struct {
		Subject   string
		FirstName string
		LastName  string
	}
	err := ds.db.Model(&models.Timetable{}).
		Select("timetables.subject AS subject, users.first_name AS first_name, users.last_name AS last_name").
		Joins("LEFT JOIN teachers ON teachers.id = timetables.teacher_id").
		Joins("LEFT JOIN users ON users.id = teachers.user_id").
		Where("timetables.school_class_id = ?", classID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]timetableEntry, 0, len(rows))
	for _, r := range rows {
		name := r.FirstName
		if r.LastName != "" {
			if name != "" {
				name += " "
			}
			name += r.LastName
		}
		entries = append(entries, timetableEntry{Subject: r.Subject, TeacherName: name})
	}
	return DistinctSubjectTeachers(entries), nil
}

// ForUser builds the dashboard payload for one user, from cache when a
// fresh copy exists.
func (ds *DashboardService) ForUser(user *models.User) (map[string]interface{}, error) {
	cacheKey := fmt.Sprintf("dashboard:%d", user.ID)
	if rc := database.GetRedisClient(); rc != nil {
		if cached, err := rc.Get(context.Background(), cacheKey).Result(); err == nil {
			var payload map[string]interface{}
			if json.Unmarshal([]byte(cached), &payload) == nil {
				return payload, nil
			}
		}
	}

	var payload map[string]interface{}
	var err error
	switch user.Role {
	case models.RolePrincipal:
		payload, err = ds.principalDashboard()
	case models.RoleTeacher:
		payload, err = ds.teacherDashboard(user)
	default:
		payload, err = ds.studentDashboard(user)
	}
	if err != nil {
		return nil, err
	}
	payload["role"] = user.Role
	payload["generated_at"] = time.Now()

	if rc := database.GetRedisClient(); rc != nil {
		if data, merr := json.Marshal(payload); merr == nil {
			rc.Set(context.Background(), cacheKey, data, dashboardCacheTTL)
		}
	}
	return payload, nil
}

func (ds *DashboardService) principalDashboard() (map[string]interface{}, error) {
	var studentCount, teacherCount, classCount, pendingLeaves int64
	if err := ds.db.Model(&models.Student{}).Count(&studentCount).Error; err != nil {
		return nil, err
	}
	if err := ds.db.Model(&models.Teacher{}).Count(&teacherCount).Error; err != nil {
		return nil, err
	}
	if err := ds.db.Model(&models.SchoolClass{}).Count(&classCount).Error; err != nil {
		return nil, err
	}
	if err := ds.db.Model(&models.LeaveRequest{}).
		Where("status = ?", models.LeavePending).
		Count(&pendingLeaves).Error; err != nil {
		return nil, err
	}

	today := time.Now().Format("2006-01-02")
	var presentToday, recordsToday int64
	if err := ds.db.Model(&models.Attendance{}).Where("date = ?", today).Count(&recordsToday).Error; err != nil {
		return nil, err
	}
	if err := ds.db.Model(&models.Attendance{}).
		Where("date = ? AND status IN ?", today, []string{models.AttendancePresent, models.AttendanceLate}).
		Count(&presentToday).Error; err != nil {
		return nil, err
	}

	fees, err := (&FeeService{db: ds.db}).FeesSummary()
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"student_count":         studentCount,
		"teacher_count":         teacherCount,
		"class_count":           classCount,
		"pending_leave_count":   pendingLeaves,
		"attendance_rate_today": AttendanceRate(presentToday, recordsToday),
		"fees":                  fees,
	}, nil
}

func (ds *DashboardService) teacherDashboard(user *models.User) (map[string]interface{}, error) {
	payload := map[string]interface{}{}

	var teacher models.Teacher
	if err := ds.db.Where("user_id = ?", user.ID).First(&teacher).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			// A teacher-role user with no teacher record gets an empty board.
			payload["class_count"] = 0
			payload["student_count"] = 0
			payload["pending_task_count"] = 0
			payload["today_timetable"] = []models.Timetable{}
			return payload, nil
		}
		return nil, err
	}

	var classes []models.SchoolClass
	if err := ds.db.Where("teacher_id = ?", user.ID).Find(&classes).Error; err != nil {
		return nil, err
	}
	classIDs := make([]uint, 0, len(classes))
	for _, cl := range classes {
		classIDs = append(classIDs, cl.ID)
	}

	var studentCount int64
	if len(classIDs) > 0 {
		if err := ds.db.Model(&models.Student{}).
			Where("school_class_id IN ?", classIDs).
			Count(&studentCount).Error; err != nil {
			return nil, err
		}
	}

	var pendingTasks int64
	if err := ds.db.Model(&models.Task{}).
		Where("teacher_id = ? AND status IN ?", teacher.ID,
			[]string{models.TaskPending, models.TaskInProgress}).
		Count(&pendingTasks).Error; err != nil {
		return nil, err
	}

	var today []models.Timetable
	if err := ds.db.Where("teacher_id = ? AND day_of_week = ?", teacher.ID, currentSchoolDay()).
		Order("start_time").
		Preload("SchoolClass").
		Find(&today).Error; err != nil {
		return nil, err
	}

	payload["class_count"] = len(classes)
	payload["student_count"] = studentCount
	payload["pending_task_count"] = pendingTasks
	payload["today_timetable"] = today
	return payload, nil
}

func (ds *DashboardService) studentDashboard(user *models.User) (map[string]interface{}, error) {
	payload := map[string]interface{}{}

	var student models.Student
	if err := ds.db.Where("user_id = ?", user.ID).First(&student).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			payload["attendance"] = &AttendanceStats{Rate: 100}
			payload["outstanding_fees"] = 0.0
			payload["upcoming_assignments"] = []models.Assignment{}
			return payload, nil
		}
		return nil, err
	}

	stats, err := (&AttendanceService{db: ds.db}).StatsForStudent(student.ID)
	if err != nil {
		return nil, err
	}

	var outstanding float64
	err = ds.db.Model(&models.Fee{}).
		Where("student_id = ? AND status IN ?", student.ID,
			[]string{models.FeeUnpaid, models.FeePartial}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&outstanding).Error
	if err != nil {
		return nil, err
	}

	var assignments []models.Assignment
	if student.SchoolClassID != nil {
		if err := ds.db.Where("school_class_id = ? AND due_date >= ?", *student.SchoolClassID, time.Now().Format("2006-01-02")).
			Order("due_date").
			Limit(5).
			Find(&assignments).Error; err != nil {
			return nil, err
		}
	}

	var unreadCount int64
	if err := ds.db.Model(&models.Notification{}).
		Where("user_id = ? AND `read` = ?", user.ID, false).
		Count(&unreadCount).Error; err != nil {
		return nil, err
	}

	payload["attendance"] = stats
	payload["outstanding_fees"] = outstanding
	payload["upcoming_assignments"] = assignments
	payload["unread_notification_count"] = unreadCount
	return payload, nil
}

// currentSchoolDay maps today's weekday onto the timetable day enum.
// Weekend days map to monday so the teacher board shows the next start.
func currentSchoolDay() string {
	switch time.Now().Weekday() {
	case time.Tuesday:
		return models.DayTuesday
	case time.Wednesday:
		return models.DayWednesday
	case time.Thursday:
		return models.DayThursday
	case time.Friday:
		return models.DayFriday
	default:
		return models.DayMonday
	}
}
