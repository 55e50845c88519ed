package utils

import (
	"testing"

	"schooladmin/models"
)

func TestToUserDTOWithoutProfile(t *testing.T) {
	user := models.User{
		Username:  "bob",
		Email:     "bob@school.edu",
		FirstName: "Bob",
		LastName:  "Stone",
		Role:      models.RoleTeacher,
		Active:    true,
	}
	user.ID = 7

	dto := ToUserDTO(user)
	if dto.ID != 7 || dto.Username != "bob" || dto.Role != models.RoleTeacher {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	if dto.Profile != nil {
		t.Fatalf("expected nil profile")
	}
}

func TestToUserDTOWithProfile(t *testing.T) {
	user := models.User{Username: "carol", Role: models.RoleStudent}
	user.Profile = &models.UserProfile{Phone: "555-0101", ClassName: "Grade 3"}

	dto := ToUserDTO(user)
	if dto.Profile == nil {
		t.Fatalf("expected embedded profile")
	}
	if dto.Profile.Phone != "555-0101" || dto.Profile.ClassName != "Grade 3" {
		t.Fatalf("unexpected profile: %+v", dto.Profile)
	}
}

func TestToStudentDTO(t *testing.T) {
	classID := uint(4)
	student := models.Student{
		UserID:        9,
		SchoolClassID: &classID,
		User:          models.User{Username: "dora", Role: models.RoleStudent},
		SchoolClass:   &models.SchoolClass{Name: "Grade 4"},
	}
	student.ID = 12

	dto := ToStudentDTO(student)
	if dto.ID != 12 || dto.User.Username != "dora" {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	if dto.SchoolClass != "Grade 4" {
		t.Fatalf("class name not mapped: %q", dto.SchoolClass)
	}
	if dto.SchoolClassID == nil || *dto.SchoolClassID != 4 {
		t.Fatalf("class id not mapped")
	}
}

func TestToNotificationDTO(t *testing.T) {
	n := models.Notification{UserID: 3, Title: "Hi", Message: "There", Type: "info"}
	n.ID = 21

	dto := ToNotificationDTO(n)
	if dto.ID != 21 || dto.UserID != 3 || dto.Title != "Hi" || dto.Read {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	if dto.ReadAt != nil {
		t.Fatalf("expected nil read_at")
	}
}
