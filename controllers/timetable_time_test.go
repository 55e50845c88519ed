package controllers

import "testing"

func TestTimeOfDay(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"hour minute", "08:30", "08:30:00"},
		{"full clock", "13:45:30", "13:45:30"},
		{"midnight", "00:00", "00:00:00"},
		{"end of day", "23:59:59", "23:59:59"},
		{"padded input", " 09:15 ", "09:15:00"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, ok := timeOfDay(tc.input)
			if !ok {
				t.Fatalf("unexpected rejection of %q", tc.input)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTimeOfDayInvalid(t *testing.T) {
	for _, input := range []string{"", "8:30", "24:00", "12:60", "12:00:60", "abc", "12", "12:3a"} {
		if _, ok := timeOfDay(input); ok {
			t.Fatalf("accepted invalid input %q", input)
		}
	}
}
