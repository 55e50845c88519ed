package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword compares a password with its hash
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateRandomString generates a random hex string of specified length
func GenerateRandomString(length int) (string, error) {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// IsValidRole checks if a role is valid
func IsValidRole(role string) bool {
	switch role {
	case "principal", "teacher", "student":
		return true
	}
	return false
}

// IsValidFeeStatus checks if a fee status is valid
func IsValidFeeStatus(status string) bool {
	switch status {
	case "unpaid", "partial", "paid":
		return true
	}
	return false
}

// IsValidAttendanceStatus checks if an attendance status is valid
func IsValidAttendanceStatus(status string) bool {
	switch status {
	case "present", "absent", "late":
		return true
	}
	return false
}

// IsValidLeaveStatus checks if a leave request status is valid
func IsValidLeaveStatus(status string) bool {
	switch status {
	case "pending", "approved", "rejected":
		return true
	}
	return false
}

// IsValidTaskStatus checks if a task status is valid
func IsValidTaskStatus(status string) bool {
	switch status {
	case "pending", "in_progress", "completed", "cancelled":
		return true
	}
	return false
}

// IsValidDayOfWeek checks a timetable day code
func IsValidDayOfWeek(day string) bool {
	switch strings.ToUpper(day) {
	case "MON", "TUE", "WED", "THU", "FRI":
		return true
	}
	return false
}

// ParseDateOnly parses a YYYY-MM-DD date string
func ParseDateOnly(s string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(s))
}

// SanitizeString removes dangerous characters from string
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	return strings.TrimSpace(input)
}
