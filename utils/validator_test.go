package utils

import "testing"

type loginForm struct {
	Username string `validate:"required,min=3"`
	Email    string `validate:"omitempty,email"`
	Score    int    `validate:"gte=0,lte=100"`
	Status   string `validate:"omitempty,oneof=unpaid partial paid"`
}

func TestValidateStructValid(t *testing.T) {
	form := loginForm{Username: "alice", Email: "alice@school.edu", Score: 85, Status: "paid"}
	if errs := ValidateStruct(form); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateStructMessages(t *testing.T) {
	form := loginForm{Username: "", Email: "not-an-email", Score: 150, Status: "overdue"}
	errs := ValidateStruct(form)
	if errs == nil {
		t.Fatalf("expected validation errors")
	}

	if errs["username"] != "This field is required" {
		t.Fatalf("username message: %q", errs["username"])
	}
	if errs["email"] != "Enter a valid email address" {
		t.Fatalf("email message: %q", errs["email"])
	}
	if errs["score"] != "Must be less than or equal to 100" {
		t.Fatalf("score message: %q", errs["score"])
	}
	if errs["status"] != "Must be one of: unpaid, partial, paid" {
		t.Fatalf("status message: %q", errs["status"])
	}
}

func TestValidateStructMinLength(t *testing.T) {
	errs := ValidateStruct(loginForm{Username: "ab"})
	if errs["username"] != "Must be at least 3 characters" {
		t.Fatalf("username message: %q", errs["username"])
	}
}
