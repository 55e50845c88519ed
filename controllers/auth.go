package controllers

import (
	"strings"
	"time"

	"schooladmin/config"
	"schooladmin/database"
	"schooladmin/middleware"
	"schooladmin/models"
	"schooladmin/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthController struct{}

// Login authenticates a user and returns an access/refresh token pair
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	var user models.User
	if err := database.DB.Preload("Profile").
		Where("username = ?", req.Username).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if !user.Active {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Account is disabled",
		})
	}

	if err := utils.CheckPassword(req.Password, user.Password); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	tokens, err := middleware.GenerateTokenPair(&user)
	if err != nil {
		logrus.WithError(err).Error("Failed to generate tokens")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate tokens",
		})
	}

	return c.JSON(fiber.Map{
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
		"user":    utils.ToUserDTO(user),
	})
}

// RefreshToken exchanges a valid refresh token for a new token pair.
// The used refresh token is blacklisted so it cannot be replayed.
func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	var req struct {
		Refresh string `json:"refresh" validate:"required"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	claims, err := middleware.ParseToken(req.Refresh)
	if err != nil || claims.TokenType != "refresh" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid refresh token",
		})
	}

	if middleware.IsTokenBlacklisted(req.Refresh) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Token has been revoked",
		})
	}

	var user models.User
	if err := database.DB.Where("id = ? AND active = ?", claims.UserID, true).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "User not found or inactive",
		})
	}

	tokens, err := middleware.GenerateTokenPair(&user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate tokens",
		})
	}

	if err := middleware.BlacklistToken(req.Refresh, config.AppConfig.RefreshExpiresIn); err != nil {
		logrus.WithError(err).Warn("Failed to blacklist used refresh token")
	}

	return c.JSON(fiber.Map{
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
	})
}

// Logout revokes the refresh token passed in the body and the access
// token used to authenticate the call.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	var req struct {
		Refresh string `json:"refresh"`
	}
	// Body is optional; logging out with only the access token is fine.
	_ = c.BodyParser(&req)

	if req.Refresh != "" {
		if err := middleware.BlacklistToken(req.Refresh, config.AppConfig.RefreshExpiresIn); err != nil {
			logrus.WithError(err).Warn("Failed to blacklist refresh token")
		}
	}

	authHeader := c.Get("Authorization")
	if access := strings.TrimPrefix(authHeader, "Bearer "); access != authHeader && access != "" {
		if err := middleware.BlacklistToken(access, config.AppConfig.AccessExpiresIn); err != nil {
			logrus.WithError(err).Warn("Failed to blacklist access token")
		}
	}

	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

// Me returns the authenticated user with profile
func (ac *AuthController) Me(c *fiber.Ctx) error {
	current, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	var user models.User
	if err := database.DB.Preload("Profile").First(&user, current.ID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return c.JSON(fiber.Map{
		"user": utils.ToUserDTO(user),
	})
}

// ChangePassword updates the authenticated user's password after
// verifying the current one.
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=6"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	current, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	if err := utils.CheckPassword(req.CurrentPassword, current.Password); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Current password is incorrect",
		})
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to hash password",
		})
	}

	if err := database.DB.Model(&models.User{}).
		Where("id = ?", current.ID).
		Updates(map[string]interface{}{"password": hashed, "updated_at": time.Now()}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update password",
		})
	}

	middleware.LogActivity(c, "UPDATE", "password", current.ID, nil)
	return c.JSON(fiber.Map{
		"message": "Password changed successfully",
	})
}
