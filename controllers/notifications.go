package controllers

import (
	"strconv"
	"time"

	"schooladmin/database"
	"schooladmin/middleware"
	"schooladmin/models"
	"schooladmin/services"
	"schooladmin/utils"

	"github.com/gofiber/fiber/v2"
)

type NotificationController struct{}

// GetNotifications lists the authenticated user's notifications
func (nc *NotificationController) GetNotifications(c *fiber.Ctx) error {
	actor, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.Notification{}).Where("user_id = ?", actor.ID)
	if c.Query("unread") == "true" {
		query = query.Where("`read` = ?", false)
	}

	var total int64
	query.Count(&total)

	var notifications []models.Notification
	if err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&notifications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch notifications",
		})
	}

	dtos := make([]utils.NotificationDTO, 0, len(notifications))
	for _, n := range notifications {
		dtos = append(dtos, utils.ToNotificationDTO(n))
	}

	return c.JSON(fiber.Map{
		"notifications": dtos,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetUnreadCount returns the user's unread notification count
func (nc *NotificationController) GetUnreadCount(c *fiber.Ctx) error {
	actor, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	var count int64
	if err := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND `read` = ?", actor.ID, false).
		Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to count notifications",
		})
	}

	return c.JSON(fiber.Map{
		"unread_count": count,
	})
}

// MarkAsRead marks one of the user's notifications read
func (nc *NotificationController) MarkAsRead(c *fiber.Ctx) error {
	actor, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	id, perr := strconv.ParseUint(c.Params("id"), 10, 32)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid notification ID",
		})
	}

	var notification models.Notification
	if err := database.DB.Where("id = ? AND user_id = ?", uint(id), actor.ID).
		First(&notification).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Notification not found",
		})
	}

	if !notification.Read {
		now := time.Now()
		if err := database.DB.Model(&notification).
			Updates(map[string]interface{}{"read": true, "read_at": now}).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to mark notification read",
			})
		}
	}

	return c.JSON(fiber.Map{
		"notification": utils.ToNotificationDTO(notification),
	})
}

// MarkAllAsRead marks every unread notification of the user read
func (nc *NotificationController) MarkAllAsRead(c *fiber.Ctx) error {
	actor, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	now := time.Now()
	result := database.DB.Model(&models.Notification{}).
		Where("user_id = ? AND `read` = ?", actor.ID, false).
		Updates(map[string]interface{}{"read": true, "read_at": now})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to mark notifications read",
		})
	}

	return c.JSON(fiber.Map{
		"marked": result.RowsAffected,
	})
}

// DeleteNotification removes one of the user's notifications
func (nc *NotificationController) DeleteNotification(c *fiber.Ctx) error {
	actor, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	id, perr := strconv.ParseUint(c.Params("id"), 10, 32)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid notification ID",
		})
	}

	var notification models.Notification
	if err := database.DB.Where("id = ? AND user_id = ?", uint(id), actor.ID).
		First(&notification).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Notification not found",
		})
	}

	if err := database.DB.Delete(&notification).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete notification",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Notification deleted successfully",
	})
}

// Broadcast sends a notification to every active user with a role.
// Principal only.
func (nc *NotificationController) Broadcast(c *fiber.Ctx) error {
	var req struct {
		Role    string `json:"role" validate:"required"`
		Title   string `json:"title" validate:"required,min=1,max=255"`
		Message string `json:"message" validate:"required"`
		Type    string `json:"type" validate:"omitempty,oneof=info warning error success"`
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
	if req.Type == "" {
		req.Type = "info"
	}

	sent, err := services.NewNotificationService().NotifyRole(req.Role, req.Title, req.Message, req.Type)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to send notifications",
		})
	}

	middleware.LogActivity(c, "CREATE", "notifications", 0, fiber.Map{"role": req.Role, "sent": sent})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"sent": sent,
	})
}
