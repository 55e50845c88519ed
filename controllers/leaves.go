package controllers

import (
	"strconv"

	"schooladmin/database"
	"schooladmin/middleware"
	"schooladmin/models"
	"schooladmin/services"
	"schooladmin/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type LeaveController struct{}

// GetLeaveRequests lists leave requests. The principal sees all;
// everyone else sees only their own.
func (lc *LeaveController) GetLeaveRequests(c *fiber.Ctx) error {
	actor, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	query := database.DB.Model(&models.LeaveRequest{})
	if actor.Role != models.RolePrincipal {
		query = query.Where("user_id = ?", actor.ID)
	}
	if status := c.Query("status"); status != "" {
		if !utils.IsValidLeaveStatus(status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid leave status",
			})
		}
		query = query.Where("status = ?", status)
	}

	var requests []models.LeaveRequest
	if err := query.Preload("User").Order("created_at DESC").Find(&requests).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch leave requests",
		})
	}

	return c.JSON(fiber.Map{
		"leave_requests": requests,
	})
}

// CreateLeaveRequest files a leave request for the authenticated user.
// The owner is always taken from the token, never from the body.
func (lc *LeaveController) CreateLeaveRequest(c *fiber.Ctx) error {
	actor, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	var req struct {
		StartDate string `json:"start_date" validate:"required"`
		EndDate   string `json:"end_date" validate:"required"`
		Reason    string `json:"reason" validate:"required,min=3"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	startDate, perr := utils.ParseDateOnly(req.StartDate)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid start date, expected YYYY-MM-DD",
		})
	}
	endDate, perr := utils.ParseDateOnly(req.EndDate)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid end date, expected YYYY-MM-DD",
		})
	}
	if endDate.Before(startDate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "End date must not be before start date",
		})
	}

	leave := models.LeaveRequest{
		UserID:    actor.ID,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    utils.SanitizeString(req.Reason),
		Status:    models.LeavePending,
	}
	if err := database.DB.Create(&leave).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create leave request",
		})
	}

	// The principal gets a heads-up for each new request.
	if _, nerr := services.NewNotificationService().NotifyRole(
		models.RolePrincipal,
		"New Leave Request",
		actor.Username+" requested leave from "+req.StartDate+" to "+req.EndDate,
		"info",
	); nerr != nil {
		logrus.WithError(nerr).Warn("Failed to notify principal of leave request")
	}

	middleware.LogActivity(c, "CREATE", "leave_requests", leave.ID, nil)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"leave_request": leave,
	})
}

// DecideLeaveRequest approves or rejects a pending request. Principal
// only; decided requests are final.
func (lc *LeaveController) DecideLeaveRequest(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid leave request ID",
		})
	}

	var leave models.LeaveRequest
	if err := database.DB.First(&leave, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Leave request not found",
		})
	}

	var req struct {
		Status string `json:"status" validate:"required,oneof=approved rejected"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	if leave.Status != models.LeavePending {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Leave request has already been decided",
		})
	}

	if err := database.DB.Model(&leave).Update("status", req.Status).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update leave request",
		})
	}

	title := "Leave Request Approved"
	notifType := "success"
	if req.Status == models.LeaveRejected {
		title = "Leave Request Rejected"
		notifType = "warning"
	}
	if _, nerr := services.NewNotificationService().Notify(
		leave.UserID, title,
		"Your leave request for "+leave.StartDate.Format("2006-01-02")+" to "+leave.EndDate.Format("2006-01-02")+" was "+req.Status+".",
		notifType,
	); nerr != nil {
		logrus.WithError(nerr).Warn("Failed to notify requester of leave decision")
	}

	middleware.LogActivity(c, "UPDATE", "leave_requests", leave.ID, fiber.Map{"status": req.Status})
	return c.JSON(fiber.Map{
		"leave_request": leave,
	})
}

// DeleteLeaveRequest withdraws a pending request. Owner or principal.
func (lc *LeaveController) DeleteLeaveRequest(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid leave request ID",
		})
	}

	var leave models.LeaveRequest
	if err := database.DB.First(&leave, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Leave request not found",
		})
	}

	if err := middleware.RequireOwnerOrPrincipal(c, leave.UserID); err != nil {
		return err
	}
	if leave.Status != models.LeavePending {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Only pending leave requests can be withdrawn",
		})
	}

	if err := database.DB.Delete(&leave).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete leave request",
		})
	}

	middleware.LogActivity(c, "DELETE", "leave_requests", leave.ID, nil)
	return c.JSON(fiber.Map{
		"message": "Leave request deleted successfully",
	})
}
