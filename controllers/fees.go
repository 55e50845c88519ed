package controllers

import (
	"strconv"

	"schooladmin/database"
	"schooladmin/middleware"
	"schooladmin/models"
	"schooladmin/services"
	"schooladmin/utils"

	"github.com/gofiber/fiber/v2"
)

type FeeController struct{}

// GetFees returns all fees with pagination. Principal only.
func (fc *FeeController) GetFees(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var fees []models.Fee
	var total int64

	query := database.DB.Model(&models.Fee{})
	if status := c.Query("status"); status != "" {
		if !utils.IsValidFeeStatus(status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid fee status",
			})
		}
		query = query.Where("status = ?", status)
	}
	if studentID := c.Query("student_id"); studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}
	query.Count(&total)

	if err := query.Preload("Student.User").
		Offset(offset).Limit(limit).Order("due_date").Find(&fees).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch fees",
		})
	}

	return c.JSON(fiber.Map{
		"fees": fees,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetFee returns one fee
func (fc *FeeController) GetFee(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid fee ID",
		})
	}

	var fee models.Fee
	if err := database.DB.Preload("Student.User").First(&fee, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Fee not found",
		})
	}

	if err := middleware.RequireOwnerOrPrincipal(c, fee.Student.UserID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"fee": fee,
	})
}

// CreateFee bills one student. Principal only.
func (fc *FeeController) CreateFee(c *fiber.Ctx) error {
	var req struct {
		StudentID uint    `json:"student_id" validate:"required"`
		Amount    float64 `json:"amount" validate:"omitempty,gt=0"`
		DueDate   string  `json:"due_date" validate:"required"`
		FeeTypeID *uint   `json:"fee_type_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	// The fee type's price wins when both are supplied.
	amount := req.Amount
	if req.FeeTypeID != nil {
		var feeType models.FeeType
		if err := database.DB.First(&feeType, *req.FeeTypeID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Fee type not found",
			})
		}
		amount = feeType.Amount
	}
	if amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Amount must be positive",
		})
	}

	dueDate, perr := utils.ParseDateOnly(req.DueDate)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid due date, expected YYYY-MM-DD",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, req.StudentID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	fee := models.Fee{
		StudentID: student.ID,
		Amount:    amount,
		DueDate:   dueDate,
		Status:    models.FeeUnpaid,
	}
	if err := database.DB.Create(&fee).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create fee",
		})
	}

	middleware.LogActivity(c, "CREATE", "fees", fee.ID, nil)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"fee": fee,
	})
}

// UpdateFee changes a fee's amount, due date or status. Principal only.
// Status moves through the generic update only between valid values;
// marking paid is also available through the pay endpoint.
func (fc *FeeController) UpdateFee(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid fee ID",
		})
	}

	var fee models.Fee
	if err := database.DB.First(&fee, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Fee not found",
		})
	}

	var req struct {
		Amount  *float64 `json:"amount" validate:"omitempty,gt=0"`
		DueDate *string  `json:"due_date"`
		Status  *string  `json:"status"`
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
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.DueDate != nil {
		dueDate, perr := utils.ParseDateOnly(*req.DueDate)
		if perr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid due date, expected YYYY-MM-DD",
			})
		}
		updates["due_date"] = dueDate
	}
	if req.Status != nil {
		if !utils.IsValidFeeStatus(*req.Status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid fee status",
			})
		}
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&fee).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update fee",
			})
		}
	}

	middleware.LogActivity(c, "UPDATE", "fees", fee.ID, nil)
	return c.JSON(fiber.Map{
		"fee": fee,
	})
}

// DeleteFee removes a fee. Principal only.
func (fc *FeeController) DeleteFee(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid fee ID",
		})
	}

	var fee models.Fee
	if err := database.DB.First(&fee, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Fee not found",
		})
	}

	if err := database.DB.Delete(&fee).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete fee",
		})
	}

	middleware.LogActivity(c, "DELETE", "fees", fee.ID, nil)
	return c.JSON(fiber.Map{
		"message": "Fee deleted successfully",
	})
}

// PayFee marks a fee paid. Paying an already paid fee succeeds and
// leaves it paid.
func (fc *FeeController) PayFee(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid fee ID",
		})
	}

	fee, serr := services.NewFeeService().PayFee(uint(id))
	if serr != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Fee not found",
		})
	}

	middleware.LogActivity(c, "UPDATE", "fees", fee.ID, fiber.Map{"action": "pay"})
	return c.JSON(fiber.Map{
		"fee":     fee,
		"message": "Fee marked as paid",
	})
}

// SendReminders pushes a payment reminder notification to every student
// with an outstanding fee. Principal only.
func (fc *FeeController) SendReminders(c *fiber.Ctx) error {
	sent, err := services.NewFeeService().SendFeeReminders()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to send reminders",
		})
	}

	middleware.LogActivity(c, "CREATE", "fee_reminders", 0, fiber.Map{"sent": sent})
	return c.JSON(fiber.Map{
		"sent":    sent,
		"message": "Reminders sent",
	})
}

// GetSummary returns the fee collection summary. Principal only.
func (fc *FeeController) GetSummary(c *fiber.Ctx) error {
	summary, err := services.NewFeeService().FeesSummary()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute fee summary",
		})
	}

	return c.JSON(fiber.Map{
		"summary": summary,
	})
}
