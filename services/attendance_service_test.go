package services

import "testing"

func TestAttendanceRate(t *testing.T) {
	tests := []struct {
		name          string
		presentOrLate int64
		total         int64
		want          float64
	}{
		{"no records", 0, 0, 100},
		{"all present", 10, 10, 100},
		{"half present", 5, 10, 50},
		{"none present", 0, 4, 0},
		{"three quarters", 3, 4, 75},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := AttendanceRate(tc.presentOrLate, tc.total); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
