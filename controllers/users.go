package controllers

import (
	"strconv"

	"schooladmin/database"
	"schooladmin/middleware"
	"schooladmin/models"
	"schooladmin/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserController struct{}

// GetUsers returns all users with pagination. Principal only.
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var users []models.User
	var total int64

	query := database.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + utils.SanitizeString(search) + "%"
		query = query.Where("username LIKE ? OR first_name LIKE ? OR last_name LIKE ?", pattern, pattern, pattern)
	}

	query.Count(&total)

	if err := query.Preload("Profile").
		Offset(offset).Limit(limit).Order("id").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch users",
		})
	}

	dtos := make([]utils.UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, utils.ToUserDTO(u))
	}

	return c.JSON(fiber.Map{
		"users": dtos,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetUser returns a specific user by ID. Users may fetch themselves;
// the principal may fetch anyone.
func (uc *UserController) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	if err := middleware.RequireOwnerOrPrincipal(c, uint(id)); err != nil {
		return err
	}

	var user models.User
	if err := database.DB.Preload("Profile").First(&user, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return c.JSON(fiber.Map{
		"user": utils.ToUserDTO(user),
	})
}

// CreateUser creates a new user with an optional nested profile and, by
// role, the matching student or teacher record. Principal only.
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var req struct {
		Username  string `json:"username" validate:"required,min=3,max=100"`
		Password  string `json:"password" validate:"required,min=6"`
		Email     string `json:"email" validate:"omitempty,email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Role      string `json:"role" validate:"required"`
		Profile   *struct {
			Phone     string `json:"phone"`
			Address   string `json:"address"`
			ClassName string `json:"class_name"`
			Subject   string `json:"subject"`
		} `json:"profile"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	if !utils.IsValidRole(req.Role) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role",
		})
	}

	var existing models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Username already exists",
		})
	}
	if req.Email != "" {
		if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Email already exists",
			})
		}
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	user := models.User{
		Username:  utils.SanitizeString(req.Username),
		Password:  hashed,
		Email:     utils.SanitizeString(req.Email),
		FirstName: utils.SanitizeString(req.FirstName),
		LastName:  utils.SanitizeString(req.LastName),
		Role:      req.Role,
		Active:    true,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if req.Profile != nil {
			profile := models.UserProfile{
				UserID:    user.ID,
				Phone:     req.Profile.Phone,
				Address:   req.Profile.Address,
				ClassName: req.Profile.ClassName,
				Subject:   req.Profile.Subject,
			}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
			user.Profile = &profile
		}
		switch user.Role {
		case models.RoleStudent:
			if err := tx.Create(&models.Student{UserID: user.ID}).Error; err != nil {
				return err
			}
		case models.RoleTeacher:
			if err := tx.Create(&models.Teacher{UserID: user.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create user",
		})
	}

	middleware.LogActivity(c, "CREATE", "users", user.ID, fiber.Map{"role": user.Role})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": utils.ToUserDTO(user),
	})
}

// UpdateUser partially updates a user and, when present, their nested
// profile. The role field is immutable and silently ignored; a profile
// record is created on first write.
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	if err := middleware.RequireOwnerOrPrincipal(c, uint(id)); err != nil {
		return err
	}

	var user models.User
	if err := database.DB.First(&user, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var req struct {
		Email     *string `json:"email" validate:"omitempty,email"`
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Active    *bool   `json:"active"`
		Profile   *struct {
			Phone     *string `json:"phone"`
			Address   *string `json:"address"`
			ClassName *string `json:"class_name"`
			Subject   *string `json:"subject"`
		} `json:"profile"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	updates := map[string]interface{}{}
	if req.Email != nil {
		var existing models.User
		if err := database.DB.Where("email = ? AND id != ?", *req.Email, user.ID).First(&existing).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Email already exists",
			})
		}
		updates["email"] = utils.SanitizeString(*req.Email)
	}
	if req.FirstName != nil {
		updates["first_name"] = utils.SanitizeString(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = utils.SanitizeString(*req.LastName)
	}
	if req.Active != nil {
		// Only the principal may enable or disable accounts.
		actor, aerr := middleware.GetCurrentUser(c)
		if aerr != nil {
			return aerr
		}
		if actor.Role != models.RolePrincipal {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Only the principal may change account status",
			})
		}
		updates["active"] = *req.Active
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&user).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Profile != nil {
			var profile models.UserProfile
			if err := tx.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
				if err != gorm.ErrRecordNotFound {
					return err
				}
				profile = models.UserProfile{UserID: user.ID}
				if err := tx.Create(&profile).Error; err != nil {
					return err
				}
			}
			profileUpdates := map[string]interface{}{}
			if req.Profile.Phone != nil {
				profileUpdates["phone"] = *req.Profile.Phone
			}
			if req.Profile.Address != nil {
				profileUpdates["address"] = *req.Profile.Address
			}
			if req.Profile.ClassName != nil {
				profileUpdates["class_name"] = *req.Profile.ClassName
			}
			if req.Profile.Subject != nil {
				profileUpdates["subject"] = *req.Profile.Subject
			}
			if len(profileUpdates) > 0 {
				if err := tx.Model(&profile).Updates(profileUpdates).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update user",
		})
	}

	if err := database.DB.Preload("Profile").First(&user, user.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to reload user",
		})
	}

	middleware.LogActivity(c, "UPDATE", "users", user.ID, nil)
	return c.JSON(fiber.Map{
		"user": utils.ToUserDTO(user),
	})
}

// DeleteUser removes a user together with their profile and, by role,
// the matching student or teacher record, mirroring the create path.
// Rows are hard-deleted so the username and email become reusable.
// Principal only; self-deletion is rejected so the school always keeps
// at least one principal login.
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	actor, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}
	if actor.ID == uint(id) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "You cannot delete your own account",
		})
	}

	var user models.User
	if err := database.DB.First(&user, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		switch user.Role {
		case models.RoleStudent:
			if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&models.Student{}).Error; err != nil {
				return err
			}
		case models.RoleTeacher:
			if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&models.Teacher{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&models.UserProfile{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&user).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete user",
		})
	}

	middleware.LogActivity(c, "DELETE", "users", user.ID, nil)
	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}
