package reports

import (
	"sort"
	"time"

	"schooladmin/models"
)

// The builders turn a Snapshot into report documents. They are pure
// functions of (snapshot, now) so their output is fully testable.

// BuildAcademic produces the enrollment, class distribution, teacher
// workload and subject distribution sections.
func BuildAcademic(s *Snapshot) Document {
	enrollHeaders := []string{"first_name", "last_name", "username", "class_name", "joined_at"}
	enrollment := make([]map[string]interface{}, 0, len(s.Students))
	for _, st := range s.Students {
		enrollment = append(enrollment, map[string]interface{}{
			"first_name": st.FirstName,
			"last_name":  st.LastName,
			"username":   st.Username,
			"class_name": st.ClassName,
			"joined_at":  st.JoinedAt.Format(time.RFC3339),
		})
	}

	classHeaders := []string{"name", "student_count"}
	classes := make([]map[string]interface{}, 0, len(s.Classes))
	for _, c := range s.Classes {
		classes = append(classes, map[string]interface{}{
			"name":          c.Name,
			"student_count": c.StudentCount,
		})
	}

	workloadHeaders := []string{"first_name", "last_name", "username", "class_count"}
	workload := make([]map[string]interface{}, 0, len(s.Teachers))
	for _, t := range s.Teachers {
		workload = append(workload, map[string]interface{}{
			"first_name":  t.FirstName,
			"last_name":   t.LastName,
			"username":    t.Username,
			"class_count": t.ClassCount,
		})
	}

	subjectHeaders := []string{"subject", "count"}
	subjects := make([]map[string]interface{}, 0, len(s.Subjects))
	for _, sub := range s.Subjects {
		subjects = append(subjects, map[string]interface{}{
			"subject": sub.Subject,
			"count":   sub.Count,
		})
	}

	return Document{
		Name: "academic_reports",
		Sections: []Section{
			{Name: "student_enrollment", Headers: enrollHeaders, Rows: enrollment},
			{Name: "class_distribution", Headers: classHeaders, Rows: classes},
			{Name: "teacher_workload", Headers: workloadHeaders, Rows: workload},
			{Name: "subject_distribution", Headers: subjectHeaders, Rows: subjects},
		},
	}
}

// BuildFinancial produces the fee summary, status breakdown, a
// 12-month collection trend by due date, and the per-class analysis.
func BuildFinancial(s *Snapshot, now time.Time) Document {
	var totalAmount, paidAmount, pendingAmount float64
	statusCount := map[string]int64{}
	statusAmount := map[string]float64{}
	for _, f := range s.Fees {
		totalAmount += f.Amount
		statusCount[f.Status]++
		statusAmount[f.Status] += f.Amount
		if f.Status == models.FeePaid {
			paidAmount += f.Amount
		} else {
			pendingAmount += f.Amount
		}
	}

	statusHeaders := []string{"status", "count", "total_amount"}
	var breakdown []map[string]interface{}
	for _, status := range []string{models.FeeUnpaid, models.FeePartial, models.FeePaid} {
		if statusCount[status] == 0 {
			continue
		}
		breakdown = append(breakdown, map[string]interface{}{
			"status":       status,
			"count":        statusCount[status],
			"total_amount": statusAmount[status],
		})
	}

	trendHeaders := []string{"month", "collected", "pending"}
	trend := make([]map[string]interface{}, 0, 12)
	for i := 0; i < 12; i++ {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		month := monthStart.Format("2006-01")
		var collected, pending float64
		for _, f := range s.Fees {
			if f.DueDate.Format("2006-01") != month {
				continue
			}
			if f.Status == models.FeePaid {
				collected += f.Amount
			} else {
				pending += f.Amount
			}
		}
		trend = append(trend, map[string]interface{}{
			"month":     month,
			"collected": collected,
			"pending":   pending,
		})
	}

	type classAgg struct {
		total, paid, pending float64
	}
	byClass := map[string]*classAgg{}
	for _, f := range s.Fees {
		name := f.ClassName
		if name == "" {
			name = "Unassigned"
		}
		agg := byClass[name]
		if agg == nil {
			agg = &classAgg{}
			byClass[name] = agg
		}
		agg.total += f.Amount
		if f.Status == models.FeePaid {
			agg.paid += f.Amount
		} else {
			agg.pending += f.Amount
		}
	}
	classNames := make([]string, 0, len(byClass))
	for name := range byClass {
		classNames = append(classNames, name)
	}
	sort.Strings(classNames)
	classHeaders := []string{"class_name", "total_fees", "paid_fees", "pending_fees"}
	classAnalysis := make([]map[string]interface{}, 0, len(classNames))
	for _, name := range classNames {
		agg := byClass[name]
		classAnalysis = append(classAnalysis, map[string]interface{}{
			"class_name":   name,
			"total_fees":   agg.total,
			"paid_fees":    agg.paid,
			"pending_fees": agg.pending,
		})
	}

	return Document{
		Name: "financial_reports",
		Sections: []Section{
			{Name: "fee_summary", Facts: []Fact{
				{"total_amount", totalAmount},
				{"paid_amount", paidAmount},
				{"pending_amount", pendingAmount},
			}},
			{Name: "fee_status_breakdown", Headers: statusHeaders, Rows: breakdown},
			{Name: "monthly_collection_trend", Headers: trendHeaders, Rows: trend},
			{Name: "class_fee_analysis", Headers: classHeaders, Rows: classAnalysis},
		},
	}
}

// BuildAttendance produces overall statistics, the per-student table,
// per-class averages and a 6-month trend.
func BuildAttendance(s *Snapshot, now time.Time) Document {
	var present, absent, late int64
	for _, a := range s.Attendance {
		switch a.Status {
		case models.AttendancePresent:
			present++
		case models.AttendanceAbsent:
			absent++
		case models.AttendanceLate:
			late++
		}
	}

	studentHeaders := []string{"first_name", "last_name", "username", "class_name",
		"total_classes", "present_count", "absent_count", "late_count"}
	students := make([]map[string]interface{}, 0, len(s.Students))
	for _, st := range s.Students {
		students = append(students, map[string]interface{}{
			"first_name":    st.FirstName,
			"last_name":     st.LastName,
			"username":      st.Username,
			"class_name":    st.ClassName,
			"total_classes": st.Total,
			"present_count": st.Present,
			"absent_count":  st.Absent,
			"late_count":    st.Late,
		})
	}

	// Class average is the mean of per-student present rates, students
	// without records excluded.
	type classAttn struct {
		students int64
		rateSum  float64
		rated    int64
	}
	byClass := map[string]*classAttn{}
	for _, st := range s.Students {
		name := st.ClassName
		if name == "" {
			continue
		}
		agg := byClass[name]
		if agg == nil {
			agg = &classAttn{}
			byClass[name] = agg
		}
		agg.students++
		if st.Total > 0 {
			agg.rateSum += float64(st.Present) * 100 / float64(st.Total)
			agg.rated++
		}
	}
	classNames := make([]string, 0, len(byClass))
	for name := range byClass {
		classNames = append(classNames, name)
	}
	sort.Strings(classNames)
	classHeaders := []string{"name", "total_students", "avg_attendance"}
	classRows := make([]map[string]interface{}, 0, len(classNames))
	for _, name := range classNames {
		agg := byClass[name]
		var avg interface{}
		if agg.rated > 0 {
			avg = agg.rateSum / float64(agg.rated)
		}
		classRows = append(classRows, map[string]interface{}{
			"name":           name,
			"total_students": agg.students,
			"avg_attendance": avg,
		})
	}

	trendHeaders := []string{"month", "present", "absent", "late"}
	trend := make([]map[string]interface{}, 0, 6)
	for i := 0; i < 6; i++ {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		month := monthStart.Format("2006-01")
		var p, a, l int64
		for _, rec := range s.Attendance {
			if rec.Date.Format("2006-01") != month {
				continue
			}
			switch rec.Status {
			case models.AttendancePresent:
				p++
			case models.AttendanceAbsent:
				a++
			case models.AttendanceLate:
				l++
			}
		}
		trend = append(trend, map[string]interface{}{
			"month": month, "present": p, "absent": a, "late": l,
		})
	}

	return Document{
		Name: "attendance_reports",
		Sections: []Section{
			{Name: "attendance_statistics", Facts: []Fact{
				{"total_records", int64(len(s.Attendance))},
				{"present_count", present},
				{"absent_count", absent},
				{"late_count", late},
			}},
			{Name: "student_attendance", Headers: studentHeaders, Rows: students},
			{Name: "class_attendance", Headers: classHeaders, Rows: classRows},
			{Name: "monthly_attendance_trend", Headers: trendHeaders, Rows: trend},
		},
	}
}

// BuildPerformance produces the grade distribution, per-student and
// per-assignment performance, and the top ten students by average score.
func BuildPerformance(s *Snapshot) Document {
	distCount := map[int]int64{}
	for _, g := range s.Grades {
		distCount[g.Score]++
	}
	scores := make([]int, 0, len(distCount))
	for score := range distCount {
		scores = append(scores, score)
	}
	sort.Ints(scores)
	distHeaders := []string{"score", "count"}
	distribution := make([]map[string]interface{}, 0, len(scores))
	for _, score := range scores {
		distribution = append(distribution, map[string]interface{}{
			"score": score,
			"count": distCount[score],
		})
	}

	perfHeaders := []string{"first_name", "last_name", "username", "class_name", "avg_score", "total_assignments"}
	performance := make([]map[string]interface{}, 0, len(s.Students))
	for _, st := range s.Students {
		var avg interface{}
		if st.AvgScore != nil {
			avg = *st.AvgScore
		}
		performance = append(performance, map[string]interface{}{
			"first_name":        st.FirstName,
			"last_name":         st.LastName,
			"username":          st.Username,
			"class_name":        st.ClassName,
			"avg_score":         avg,
			"total_assignments": st.GradeCount,
		})
	}

	assignHeaders := []string{"title", "avg_score", "total_submissions"}
	assignments := make([]map[string]interface{}, 0, len(s.Assignments))
	for _, a := range s.Assignments {
		var avg interface{}
		if a.AvgScore != nil && a.Submissions > 0 {
			avg = *a.AvgScore
		}
		assignments = append(assignments, map[string]interface{}{
			"title":             a.Title,
			"avg_score":         avg,
			"total_submissions": a.Submissions,
		})
	}

	graded := make([]StudentRecord, 0, len(s.Students))
	for _, st := range s.Students {
		if st.AvgScore != nil {
			graded = append(graded, st)
		}
	}
	sort.SliceStable(graded, func(i, j int) bool {
		return *graded[i].AvgScore > *graded[j].AvgScore
	})
	if len(graded) > 10 {
		graded = graded[:10]
	}
	topHeaders := []string{"first_name", "last_name", "username", "class_name", "avg_score"}
	top := make([]map[string]interface{}, 0, len(graded))
	for _, st := range graded {
		top = append(top, map[string]interface{}{
			"first_name": st.FirstName,
			"last_name":  st.LastName,
			"username":   st.Username,
			"class_name": st.ClassName,
			"avg_score":  *st.AvgScore,
		})
	}

	return Document{
		Name: "performance_reports",
		Sections: []Section{
			{Name: "grade_distribution", Headers: distHeaders, Rows: distribution},
			{Name: "student_performance", Headers: perfHeaders, Rows: performance},
			{Name: "assignment_performance", Headers: assignHeaders, Rows: assignments},
			{Name: "top_performers", Headers: topHeaders, Rows: top},
		},
	}
}

// BuildSummary produces the headline counts, the last-30-days activity
// block and a system health stub.
func BuildSummary(s *Snapshot, now time.Time) Document {
	t := s.Totals
	return Document{
		Name: "summary_report",
		Sections: []Section{
			{Name: "overall_statistics", Facts: []Fact{
				{"total_students", t.Students},
				{"total_teachers", t.Teachers},
				{"total_classes", t.Classes},
				{"total_fees", t.Fees},
				{"total_paid_fees", t.PaidFees},
				{"total_pending_fees", t.PendingFees},
				{"total_attendance_records", t.AttendanceRecords},
				{"total_assignments", t.Assignments},
				{"total_grades", t.Grades},
				{"total_tasks", t.Tasks},
				{"pending_leaves", t.PendingLeaves},
			}},
			{Name: "recent_activity", Facts: []Fact{
				{"new_students", t.NewStudents30d},
				{"new_fees", t.NewFees30d},
				{"new_assignments", t.NewAssignments30d},
				{"completed_tasks", t.CompletedTasks30d},
			}},
			{Name: "system_health", Facts: []Fact{
				{"database_status", "healthy"},
				{"generated_at", now.Format(time.RFC3339)},
				{"active_users", t.ActiveUsers},
			}},
		},
	}
}
