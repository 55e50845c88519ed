package reports

import (
	"testing"
	"time"
)

func floatPtr(f float64) *float64 { return &f }

func sampleSnapshot() *Snapshot {
	joined := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	return &Snapshot{
		Students: []StudentRecord{
			{FirstName: "Amy", LastName: "Lee", Username: "amy", ClassName: "Grade 1",
				JoinedAt: joined, Total: 10, Present: 8, Absent: 1, Late: 1,
				GradeCount: 3, AvgScore: floatPtr(82.5)},
			{FirstName: "Ben", LastName: "Fox", Username: "ben", ClassName: "Grade 1",
				JoinedAt: joined, Total: 10, Present: 5, Absent: 5,
				GradeCount: 3, AvgScore: floatPtr(91)},
			{FirstName: "Cid", LastName: "Orr", Username: "cid", ClassName: "Grade 2",
				JoinedAt: joined},
		},
		Classes: []ClassRecord{
			{Name: "Grade 1", StudentCount: 2},
			{Name: "Grade 2", StudentCount: 1},
		},
		Teachers: []TeacherRecord{{FirstName: "Tia", LastName: "May", Username: "tia", ClassCount: 2}},
		Subjects: []SubjectCount{{Subject: "Mathematics", Count: 5}},
		Fees: []FeeRecord{
			{Amount: 100, Status: "paid", DueDate: time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC), ClassName: "Grade 1"},
			{Amount: 250, Status: "unpaid", DueDate: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), ClassName: "Grade 1"},
			{Amount: 75, Status: "partial", DueDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), ClassName: ""},
		},
		Attendance: []AttendanceRecord{
			{Date: time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC), Status: "present"},
			{Date: time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC), Status: "absent"},
			{Date: time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC), Status: "late"},
		},
		Grades: []GradeRecord{{Score: 80}, {Score: 80}, {Score: 95}},
		Assignments: []AssignmentRecord{
			{Title: "Essay 1", AvgScore: floatPtr(85), Submissions: 2},
			{Title: "Essay 2"},
		},
		Totals: Totals{Students: 3, Teachers: 1, Classes: 2, Fees: 3},
	}
}

func sectionByName(t *testing.T, doc Document, name string) Section {
	t.Helper()
	for _, sec := range doc.Sections {
		if sec.Name == name {
			return sec
		}
	}
	t.Fatalf("document %s has no section %s", doc.Name, name)
	return Section{}
}

func TestBuildAcademic(t *testing.T) {
	doc := BuildAcademic(sampleSnapshot())
	if doc.Name != "academic_reports" {
		t.Fatalf("document name: %s", doc.Name)
	}

	enrollment := sectionByName(t, doc, "student_enrollment")
	if len(enrollment.Rows) != 3 {
		t.Fatalf("enrollment rows: %d", len(enrollment.Rows))
	}
	if enrollment.Rows[0]["username"] != "amy" {
		t.Fatalf("first enrollment row: %+v", enrollment.Rows[0])
	}

	classes := sectionByName(t, doc, "class_distribution")
	if len(classes.Rows) != 2 || classes.Rows[0]["student_count"] != int64(2) {
		t.Fatalf("class distribution: %+v", classes.Rows)
	}

	workload := sectionByName(t, doc, "teacher_workload")
	if len(workload.Rows) != 1 || workload.Rows[0]["class_count"] != int64(2) {
		t.Fatalf("teacher workload: %+v", workload.Rows)
	}
}

func TestBuildFinancial(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	doc := BuildFinancial(sampleSnapshot(), now)

	summary := sectionByName(t, doc, "fee_summary")
	if summary.Facts[0].Value != 425.0 {
		t.Fatalf("total amount: %v", summary.Facts[0].Value)
	}
	if summary.Facts[1].Value != 100.0 {
		t.Fatalf("paid amount: %v", summary.Facts[1].Value)
	}
	if summary.Facts[2].Value != 325.0 {
		t.Fatalf("pending amount: %v", summary.Facts[2].Value)
	}

	trend := sectionByName(t, doc, "monthly_collection_trend")
	if len(trend.Rows) != 12 {
		t.Fatalf("trend months: %d", len(trend.Rows))
	}
	if trend.Rows[0]["month"] != "2026-08" {
		t.Fatalf("first trend month: %v", trend.Rows[0]["month"])
	}
	if trend.Rows[0]["collected"] != 100.0 || trend.Rows[0]["pending"] != 250.0 {
		t.Fatalf("august trend: %+v", trend.Rows[0])
	}
	if trend.Rows[1]["pending"] != 75.0 {
		t.Fatalf("july trend: %+v", trend.Rows[1])
	}

	analysis := sectionByName(t, doc, "class_fee_analysis")
	if len(analysis.Rows) != 2 {
		t.Fatalf("class analysis rows: %d", len(analysis.Rows))
	}
	// Sorted by class name, so Grade 1 comes before Unassigned.
	if analysis.Rows[0]["class_name"] != "Grade 1" || analysis.Rows[1]["class_name"] != "Unassigned" {
		t.Fatalf("class analysis ordering: %+v", analysis.Rows)
	}
	if analysis.Rows[0]["paid_fees"] != 100.0 || analysis.Rows[0]["pending_fees"] != 250.0 {
		t.Fatalf("grade 1 analysis: %+v", analysis.Rows[0])
	}
}

func TestBuildAttendance(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	doc := BuildAttendance(sampleSnapshot(), now)

	stats := sectionByName(t, doc, "attendance_statistics")
	if stats.Facts[0].Value != int64(3) {
		t.Fatalf("total records: %v", stats.Facts[0].Value)
	}
	if stats.Facts[1].Value != int64(1) || stats.Facts[2].Value != int64(1) || stats.Facts[3].Value != int64(1) {
		t.Fatalf("status counts: %+v", stats.Facts)
	}

	classes := sectionByName(t, doc, "class_attendance")
	if len(classes.Rows) != 2 {
		t.Fatalf("class rows: %d", len(classes.Rows))
	}
	// Grade 1 average is the mean of 80% and 50%.
	if classes.Rows[0]["avg_attendance"] != 65.0 {
		t.Fatalf("grade 1 average: %v", classes.Rows[0]["avg_attendance"])
	}
	// Grade 2's only student has no records, so no average exists.
	if classes.Rows[1]["avg_attendance"] != nil {
		t.Fatalf("grade 2 average should be nil: %v", classes.Rows[1]["avg_attendance"])
	}

	trend := sectionByName(t, doc, "monthly_attendance_trend")
	if len(trend.Rows) != 6 {
		t.Fatalf("trend months: %d", len(trend.Rows))
	}
	if trend.Rows[0]["present"] != int64(1) || trend.Rows[1]["late"] != int64(1) {
		t.Fatalf("trend rows: %+v", trend.Rows[:2])
	}
}

func TestBuildPerformance(t *testing.T) {
	doc := BuildPerformance(sampleSnapshot())

	dist := sectionByName(t, doc, "grade_distribution")
	if len(dist.Rows) != 2 {
		t.Fatalf("distribution rows: %d", len(dist.Rows))
	}
	if dist.Rows[0]["score"] != 80 || dist.Rows[0]["count"] != int64(2) {
		t.Fatalf("distribution first row: %+v", dist.Rows[0])
	}

	top := sectionByName(t, doc, "top_performers")
	if len(top.Rows) != 2 {
		t.Fatalf("top performers: %d", len(top.Rows))
	}
	// Ben's 91 average outranks Amy's 82.5; Cid has no grades at all.
	if top.Rows[0]["username"] != "ben" || top.Rows[1]["username"] != "amy" {
		t.Fatalf("top ordering: %+v", top.Rows)
	}

	assignments := sectionByName(t, doc, "assignment_performance")
	if assignments.Rows[1]["avg_score"] != nil {
		t.Fatalf("assignment with no submissions should have nil average")
	}
}

func TestBuildPerformanceTopTenCap(t *testing.T) {
	snap := &Snapshot{}
	for i := 0; i < 15; i++ {
		snap.Students = append(snap.Students, StudentRecord{
			Username: "s", AvgScore: floatPtr(float64(50 + i)),
		})
	}
	doc := BuildPerformance(snap)
	top := sectionByName(t, doc, "top_performers")
	if len(top.Rows) != 10 {
		t.Fatalf("expected top 10, got %d", len(top.Rows))
	}
	if top.Rows[0]["avg_score"] != 64.0 {
		t.Fatalf("best average: %v", top.Rows[0]["avg_score"])
	}
}

func TestBuildSummary(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	doc := BuildSummary(sampleSnapshot(), now)

	overall := sectionByName(t, doc, "overall_statistics")
	if overall.Facts[0].Key != "total_students" || overall.Facts[0].Value != int64(3) {
		t.Fatalf("overall first fact: %+v", overall.Facts[0])
	}

	health := sectionByName(t, doc, "system_health")
	if health.Facts[1].Value != "2026-08-28T12:00:00Z" {
		t.Fatalf("generated_at: %v", health.Facts[1].Value)
	}
}

func TestIsValidReportType(t *testing.T) {
	for _, valid := range []string{"all", "academic", "financial", "attendance", "performance"} {
		if !IsValidReportType(valid) {
			t.Fatalf("%s should be valid", valid)
		}
	}
	if IsValidReportType("summary") || IsValidReportType("") {
		t.Fatalf("unexpected valid type")
	}
}
