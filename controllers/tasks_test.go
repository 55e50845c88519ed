package controllers

import "testing"

func TestIsValidTaskType(t *testing.T) {
	valid := []string{
		"lesson_planning", "grade_assignments", "attendance_marking",
		"parent_meetings", "class_preparation", "administrative", "other",
	}
	for _, v := range valid {
		if !isValidTaskType(v) {
			t.Fatalf("%s should be valid", v)
		}
	}
	for _, v := range []string{"", "meeting", "LESSON_PLANNING"} {
		if isValidTaskType(v) {
			t.Fatalf("%s should be invalid", v)
		}
	}
}

func TestIsValidTaskPriority(t *testing.T) {
	for _, v := range []string{"low", "medium", "high", "urgent"} {
		if !isValidTaskPriority(v) {
			t.Fatalf("%s should be valid", v)
		}
	}
	for _, v := range []string{"", "critical", "High"} {
		if isValidTaskPriority(v) {
			t.Fatalf("%s should be invalid", v)
		}
	}
}
