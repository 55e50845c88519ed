package config

import (
	"testing"
	"time"
)

func TestParseDurationShorthand(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"1h", time.Hour},
		{"30m", 30 * time.Minute},
		{"90s", 90 * time.Second},
		{"1d", 24 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"2w", 14 * 24 * time.Hour},
		{"1D", 24 * time.Hour},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			if got := parseDurationShorthand(tc.input); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGetDSN(t *testing.T) {
	c := &Config{
		DBHost:     "db.internal",
		DBPort:     "3306",
		DBUser:     "school",
		DBPassword: "pw",
		DBName:     "schooladmin",
	}
	want := "school:pw@tcp(db.internal:3306)/schooladmin?charset=utf8mb4&parseTime=True&loc=Local"
	if got := c.GetDSN(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
