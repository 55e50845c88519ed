package middleware

import (
	"schooladmin/models"

	"github.com/gofiber/fiber/v2"
)

// Object-level authorization. Every mutation of a personally-scoped
// entity goes through one of these checks instead of ad hoc per-handler
// role tests, so a student or teacher can only touch their own records
// while the principal is privileged over everything.

// CanActOnUser reports whether actor may mutate records owned by ownerID.
func CanActOnUser(actor *models.User, ownerID uint) bool {
	if actor == nil {
		return false
	}
	if actor.Role == models.RolePrincipal {
		return true
	}
	return actor.ID == ownerID
}

// RequireOwnerOrPrincipal fails with 403 unless the acting user owns the
// target record or is the principal.
func RequireOwnerOrPrincipal(c *fiber.Ctx, ownerID uint) error {
	actor, err := GetCurrentUser(c)
	if err != nil {
		return err
	}
	if !CanActOnUser(actor, ownerID) {
		return fiber.NewError(fiber.StatusForbidden, "You may only modify your own record")
	}
	return nil
}

// RequireTeacherSelfOrPrincipal is the same check for teacher-scoped
// resources such as tasks: the owning teacher's user or the principal.
func RequireTeacherSelfOrPrincipal(c *fiber.Ctx, teacher *models.Teacher) error {
	actor, err := GetCurrentUser(c)
	if err != nil {
		return err
	}
	if actor.Role == models.RolePrincipal {
		return nil
	}
	if teacher != nil && teacher.UserID == actor.ID {
		return nil
	}
	return fiber.NewError(fiber.StatusForbidden, "You may only modify your own tasks")
}
