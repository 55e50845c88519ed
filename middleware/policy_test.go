package middleware

import (
	"testing"

	"schooladmin/models"
)

func userWithRole(id uint, role string) *models.User {
	u := &models.User{Role: role}
	u.ID = id
	return u
}

func TestCanActOnUser(t *testing.T) {
	tests := []struct {
		name    string
		actor   *models.User
		ownerID uint
		want    bool
	}{
		{"nil actor", nil, 1, false},
		{"principal on anyone", userWithRole(1, models.RolePrincipal), 99, true},
		{"teacher on self", userWithRole(5, models.RoleTeacher), 5, true},
		{"teacher on other", userWithRole(5, models.RoleTeacher), 6, false},
		{"student on self", userWithRole(9, models.RoleStudent), 9, true},
		{"student on other", userWithRole(9, models.RoleStudent), 2, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := CanActOnUser(tc.actor, tc.ownerID); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
