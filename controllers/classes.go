package controllers

import (
	"strconv"

	"schooladmin/database"
	"schooladmin/middleware"
	"schooladmin/models"
	"schooladmin/services"
	"schooladmin/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ClassController struct{}

// GetClasses returns all classes with student counts
func (cc *ClassController) GetClasses(c *fiber.Ctx) error {
	var classes []models.SchoolClass
	if err := database.DB.Preload("Teacher").Order("name").Find(&classes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch classes",
		})
	}

	type classRow struct {
		models.SchoolClass
		StudentCount int64 `json:"student_count"`
	}
	rows := make([]classRow, 0, len(classes))
	for _, cl := range classes {
		var count int64
		database.DB.Model(&models.Student{}).Where("school_class_id = ?", cl.ID).Count(&count)
		rows = append(rows, classRow{SchoolClass: cl, StudentCount: count})
	}

	return c.JSON(fiber.Map{
		"classes": rows,
	})
}

// GetClass returns one class with its students and subjects
func (cc *ClassController) GetClass(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid class ID",
		})
	}

	var class models.SchoolClass
	if err := database.DB.Preload("Teacher").Preload("Students.User").
		First(&class, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	subjects, serr := services.NewDashboardService().SubjectsForClass(class.ID)
	if serr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load class subjects",
		})
	}

	return c.JSON(fiber.Map{
		"class":    class,
		"subjects": subjects,
	})
}

// GetClassStudents returns the current members of a class
func (cc *ClassController) GetClassStudents(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid class ID",
		})
	}

	var class models.SchoolClass
	if err := database.DB.First(&class, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	var students []models.Student
	if err := database.DB.Where("school_class_id = ?", class.ID).
		Preload("User.Profile").
		Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch class students",
		})
	}

	dtos := make([]utils.StudentDTO, 0, len(students))
	for _, s := range students {
		dtos = append(dtos, utils.ToStudentDTO(s))
	}
	return c.JSON(fiber.Map{
		"students": dtos,
		"count":    len(dtos),
	})
}

// GetClassTimetable returns a class timetable ordered by day and start
func (cc *ClassController) GetClassTimetable(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid class ID",
		})
	}

	var class models.SchoolClass
	if err := database.DB.First(&class, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	var entries []models.Timetable
	if err := database.DB.Where("school_class_id = ?", class.ID).
		Preload("Teacher.User").
		Order("FIELD(day_of_week, 'MON','TUE','WED','THU','FRI'), start_time").
		Find(&entries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch class timetable",
		})
	}

	return c.JSON(fiber.Map{
		"timetable": entries,
	})
}

// CreateClass creates a class, optionally assigning a homeroom teacher.
// Principal only.
func (cc *ClassController) CreateClass(c *fiber.Ctx) error {
	var req struct {
		Name      string `json:"name" validate:"required,min=1,max=100"`
		TeacherID *uint  `json:"teacher_id"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}

	var existing models.SchoolClass
	if err := database.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Class name already exists",
		})
	}

	if req.TeacherID != nil {
		if err := requireTeacherUser(*req.TeacherID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	class := models.SchoolClass{
		Name:      utils.SanitizeString(req.Name),
		TeacherID: req.TeacherID,
	}
	if err := database.DB.Create(&class).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create class",
		})
	}

	middleware.LogActivity(c, "CREATE", "classes", class.ID, nil)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"class": class,
	})
}

// requireTeacherUser verifies the user exists and holds the teacher role
func requireTeacherUser(userID uint) error {
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Teacher user not found")
	}
	if user.Role != models.RoleTeacher {
		return fiber.NewError(fiber.StatusBadRequest, "Assigned user is not a teacher")
	}
	return nil
}

// UpdateClass renames a class or reassigns its teacher. Principal only.
func (cc *ClassController) UpdateClass(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid class ID",
		})
	}

	var class models.SchoolClass
	if err := database.DB.First(&class, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	var req struct {
		Name      *string `json:"name" validate:"omitempty,min=1,max=100"`
		TeacherID *uint   `json:"teacher_id"`
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
		var existing models.SchoolClass
		if err := database.DB.Where("name = ? AND id != ?", *req.Name, class.ID).First(&existing).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Class name already exists",
			})
		}
		updates["name"] = utils.SanitizeString(*req.Name)
	}
	if req.TeacherID != nil {
		if err := requireTeacherUser(*req.TeacherID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		updates["teacher_id"] = *req.TeacherID
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&class).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update class",
			})
		}
	}

	middleware.LogActivity(c, "UPDATE", "classes", class.ID, nil)
	return c.JSON(fiber.Map{
		"class": class,
	})
}

// DeleteClass removes a class. Members keep their student records with
// the class reference cleared, and timetable entries are detached the
// same way. Assignments and their grades go with the class. The class
// row itself is hard-deleted so the name can be reused.
func (cc *ClassController) DeleteClass(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid class ID",
		})
	}

	var class models.SchoolClass
	if err := database.DB.First(&class, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Student{}).
			Where("school_class_id = ?", class.ID).
			Update("school_class_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Timetable{}).
			Where("school_class_id = ?", class.ID).
			Update("school_class_id", nil).Error; err != nil {
			return err
		}

		var assignmentIDs []uint
		if err := tx.Model(&models.Assignment{}).
			Where("school_class_id = ?", class.ID).
			Pluck("id", &assignmentIDs).Error; err != nil {
			return err
		}
		if len(assignmentIDs) > 0 {
			if err := tx.Where("assignment_id IN ?", assignmentIDs).
				Delete(&models.Grade{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", assignmentIDs).
				Delete(&models.Assignment{}).Error; err != nil {
				return err
			}
		}

		return tx.Unscoped().Delete(&class).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete class",
		})
	}

	middleware.LogActivity(c, "DELETE", "classes", class.ID, nil)
	return c.JSON(fiber.Map{
		"message": "Class deleted successfully",
	})
}

// CreateClassFee bills every student in the class at once. The run is
// atomic: an empty class or a failed insert bills nobody.
func (cc *ClassController) CreateClassFee(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid class ID",
		})
	}

	var class models.SchoolClass
	if err := database.DB.First(&class, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	var req struct {
		Amount    float64 `json:"amount" validate:"required,gt=0"`
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

	dueDate, perr := utils.ParseDateOnly(req.DueDate)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid due date, expected YYYY-MM-DD",
		})
	}

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

	fees, ferr := services.NewFeeService().CreateClassFee(class.ID, amount, dueDate)
	if ferr != nil {
		if ferr == services.ErrEmptyClass {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Class has no students",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create class fees",
		})
	}

	middleware.LogActivity(c, "CREATE", "class_fees", class.ID, fiber.Map{"count": len(fees)})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"fees":  fees,
		"count": len(fees),
	})
}
