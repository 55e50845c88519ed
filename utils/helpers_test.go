package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "s3cret" {
		t.Fatalf("hash must not equal the plain password")
	}
	if err := CheckPassword("s3cret", hash); err != nil {
		t.Fatalf("correct password rejected: %v", err)
	}
	if err := CheckPassword("wrong", hash); err == nil {
		t.Fatalf("wrong password accepted")
	}
}

func TestStatusValidators(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(string) bool
		input string
		want  bool
	}{
		{"valid role", IsValidRole, "teacher", true},
		{"invalid role", IsValidRole, "admin", false},
		{"valid fee status", IsValidFeeStatus, "partial", true},
		{"invalid fee status", IsValidFeeStatus, "overdue", false},
		{"valid attendance", IsValidAttendanceStatus, "late", true},
		{"invalid attendance", IsValidAttendanceStatus, "excused", false},
		{"valid leave status", IsValidLeaveStatus, "rejected", true},
		{"invalid leave status", IsValidLeaveStatus, "denied", false},
		{"valid task status", IsValidTaskStatus, "in_progress", true},
		{"invalid task status", IsValidTaskStatus, "done", false},
		{"valid day", IsValidDayOfWeek, "WED", true},
		{"lowercase day", IsValidDayOfWeek, "mon", true},
		{"weekend day", IsValidDayOfWeek, "SAT", false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.fn(tc.input); got != tc.want {
				t.Fatalf("got %v for %q, want %v", got, tc.input, tc.want)
			}
		})
	}
}

func TestParseDateOnly(t *testing.T) {
	d, err := ParseDateOnly(" 2026-03-15 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2026 || d.Month() != 3 || d.Day() != 15 {
		t.Fatalf("parsed wrong date: %v", d)
	}

	if _, err := ParseDateOnly("15/03/2026"); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
	if _, err := ParseDateOnly("2026-13-01"); err == nil {
		t.Fatalf("expected error for invalid month")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello\x00world  "); got != "helloworld" {
		t.Fatalf("got %q", got)
	}
}

func TestGenerateRandomString(t *testing.T) {
	a, err := GenerateRandomString(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != 16 {
		t.Fatalf("expected 16 chars, got %d", len(a))
	}
	b, _ := GenerateRandomString(16)
	if a == b {
		t.Fatalf("two random strings matched")
	}
}
