package controllers

import (
	"strconv"

	"schooladmin/database"
	"schooladmin/middleware"
	"schooladmin/models"
	"schooladmin/utils"

	"github.com/gofiber/fiber/v2"
)

type FeeTypeController struct{}

// GetFeeTypes returns every fee type
func (fc *FeeTypeController) GetFeeTypes(c *fiber.Ctx) error {
	var feeTypes []models.FeeType
	query := database.DB.Order("name")
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&feeTypes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch fee types",
		})
	}

	return c.JSON(fiber.Map{
		"fee_types": feeTypes,
	})
}

// CreateFeeType adds a priced fee category. Principal only.
func (fc *FeeTypeController) CreateFeeType(c *fiber.Ctx) error {
	var req struct {
		Name     string  `json:"name" validate:"required,min=1,max=100"`
		Amount   float64 `json:"amount" validate:"required,gt=0"`
		Category string  `json:"category" validate:"omitempty,max=50"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	var existing models.FeeType
	if err := database.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Fee type name already exists",
		})
	}

	feeType := models.FeeType{
		Name:     utils.SanitizeString(req.Name),
		Amount:   req.Amount,
		Category: utils.SanitizeString(req.Category),
	}
	if err := database.DB.Create(&feeType).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create fee type",
		})
	}

	middleware.LogActivity(c, "CREATE", "fee_types", feeType.ID, nil)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"fee_type": feeType,
	})
}

// UpdateFeeType changes a fee type. Existing fees keep the amount they
// were billed with.
func (fc *FeeTypeController) UpdateFeeType(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid fee type ID",
		})
	}

	var feeType models.FeeType
	if err := database.DB.First(&feeType, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Fee type not found",
		})
	}

	var req struct {
		Name     *string  `json:"name" validate:"omitempty,min=1,max=100"`
		Amount   *float64 `json:"amount" validate:"omitempty,gt=0"`
		Category *string  `json:"category" validate:"omitempty,max=50"`
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
	if req.Name != nil {
		var existing models.FeeType
		if err := database.DB.Where("name = ? AND id != ?", *req.Name, feeType.ID).First(&existing).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Fee type name already exists",
			})
		}
		updates["name"] = utils.SanitizeString(*req.Name)
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.Category != nil {
		updates["category"] = utils.SanitizeString(*req.Category)
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&feeType).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update fee type",
			})
		}
	}

	middleware.LogActivity(c, "UPDATE", "fee_types", feeType.ID, nil)
	return c.JSON(fiber.Map{
		"fee_type": feeType,
	})
}

// DeleteFeeType removes a fee type. Hard delete, so the name can be
// re-registered later. Principal only.
func (fc *FeeTypeController) DeleteFeeType(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid fee type ID",
		})
	}

	var feeType models.FeeType
	if err := database.DB.First(&feeType, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Fee type not found",
		})
	}

	if err := database.DB.Unscoped().Delete(&feeType).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete fee type",
		})
	}

	middleware.LogActivity(c, "DELETE", "fee_types", feeType.ID, nil)
	return c.JSON(fiber.Map{
		"message": "Fee type deleted successfully",
	})
}
