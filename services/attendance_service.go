package services

import (
	"schooladmin/database"
	"schooladmin/models"

	"gorm.io/gorm"
)

// AttendanceService computes per-student attendance statistics.
type AttendanceService struct {
	db *gorm.DB
}

func NewAttendanceService() *AttendanceService {
	return &AttendanceService{db: database.GetDB()}
}

// AttendanceRate is the percentage of records marked present or late.
// A student with no records is treated as fully attending: 100, not 0.
func AttendanceRate(presentOrLate, total int64) float64 {
	if total == 0 {
		return 100
	}
	return float64(presentOrLate) * 100 / float64(total)
}

// AttendanceStats is one student's attendance breakdown.
type AttendanceStats struct {
	Total   int64   `json:"total"`
	Present int64   `json:"present"`
	Absent  int64   `json:"absent"`
	Late    int64   `json:"late"`
	Rate    float64 `json:"rate"`
}

// StatsForStudent loads and aggregates one student's records.
func (as *AttendanceService) StatsForStudent(studentID uint) (*AttendanceStats, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	err := as.db.Model(&models.Attendance{}).
		Select("status, COUNT(*) AS n").
		Where("student_id = ?", studentID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &AttendanceStats{}
	for _, r := range rows {
		stats.Total += r.N
		switch r.Status {
		case models.AttendancePresent:
			stats.Present = r.N
		case models.AttendanceAbsent:
			stats.Absent = r.N
		case models.AttendanceLate:
			stats.Late = r.N
		}
	}
	stats.Rate = AttendanceRate(stats.Present+stats.Late, stats.Total)
	return stats, nil
}
