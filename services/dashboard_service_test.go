package services

import "testing"

func TestDistinctSubjectTeachers(t *testing.T) {
	entries := []timetableEntry{
		{Subject: "Mathematics", TeacherName: "Alice Ray"},
		{Subject: "Mathematics", TeacherName: "Alice Ray"},
		{Subject: "Physics", TeacherName: "Bob Stone"},
		{Subject: "Mathematics", TeacherName: "Bob Stone"},
		{Subject: "", TeacherName: "Nobody"},
	}

	pairs := DistinctSubjectTeachers(entries)
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d: %+v", len(pairs), pairs)
	}

	want := []SubjectTeacher{
		{Subject: "Mathematics", TeacherName: "Alice Ray"},
		{Subject: "Mathematics", TeacherName: "Bob Stone"},
		{Subject: "Physics", TeacherName: "Bob Stone"},
	}
	for i, p := range want {
		if pairs[i] != p {
			t.Fatalf("position %d: got %+v, want %+v", i, pairs[i], p)
		}
	}
}

func TestDistinctSubjectTeachersEmpty(t *testing.T) {
	if pairs := DistinctSubjectTeachers(nil); len(pairs) != 0 {
		t.Fatalf("expected empty result, got %+v", pairs)
	}
}

func TestDistinctSubjectTeachersSameSubjectTwoTeachers(t *testing.T) {
	entries := []timetableEntry{
		{Subject: "English", TeacherName: "Zoe West"},
		{Subject: "English", TeacherName: "Ann Bell"},
	}
	pairs := DistinctSubjectTeachers(entries)
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].TeacherName != "Ann Bell" || pairs[1].TeacherName != "Zoe West" {
		t.Fatalf("teacher ordering wrong: %+v", pairs)
	}
}
