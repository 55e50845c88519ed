package utils

import (
	"time"

	"schooladmin/models"
)

// Compact representations used across APIs

type ProfileDTO struct {
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	ClassName string `json:"class_name,omitempty"`
	Subject   string `json:"subject,omitempty"`
}

type UserDTO struct {
	ID        uint        `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      string      `json:"role"`
	Active    bool        `json:"active"`
	Profile   *ProfileDTO `json:"profile,omitempty"`
}

type StudentDTO struct {
	ID            uint    `json:"id"`
	User          UserDTO `json:"user"`
	SchoolClassID *uint   `json:"school_class_id"`
	SchoolClass   string  `json:"school_class,omitempty"`
}

type TeacherDTO struct {
	ID              uint    `json:"id"`
	User            UserDTO `json:"user"`
	Qualification   string  `json:"qualification,omitempty"`
	ExperienceYears int     `json:"experience_years"`
	Specialization  string  `json:"specialization,omitempty"`
}

type NotificationDTO struct {
	ID        uint       `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UserID    uint       `json:"user_id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

// ToUserDTO maps a models.User to the compact DTO.
// Assumptions: caller has preloaded Profile when it should be embedded.
func ToUserDTO(u models.User) UserDTO {
	dto := UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Active:    u.Active,
	}
	if u.Profile != nil {
		dto.Profile = &ProfileDTO{
			Phone:     u.Profile.Phone,
			Address:   u.Profile.Address,
			ClassName: u.Profile.ClassName,
			Subject:   u.Profile.Subject,
		}
	}
	return dto
}

// ToStudentDTO maps a models.Student with preloaded User (and
// optionally SchoolClass) to its DTO.
func ToStudentDTO(s models.Student) StudentDTO {
	dto := StudentDTO{
		ID:            s.ID,
		User:          ToUserDTO(s.User),
		SchoolClassID: s.SchoolClassID,
	}
	if s.SchoolClass != nil {
		dto.SchoolClass = s.SchoolClass.Name
	}
	return dto
}

// ToTeacherDTO maps a models.Teacher with preloaded User to its DTO.
func ToTeacherDTO(t models.Teacher) TeacherDTO {
	return TeacherDTO{
		ID:              t.ID,
		User:            ToUserDTO(t.User),
		Qualification:   t.Qualification,
		ExperienceYears: t.ExperienceYears,
		Specialization:  t.Specialization,
	}
}

// ToNotificationDTO maps a models.Notification to the compact DTO.
func ToNotificationDTO(n models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		CreatedAt: n.CreatedAt,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
	}
}
