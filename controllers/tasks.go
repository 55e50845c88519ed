package controllers

import (
	"strconv"
	"time"

	"schooladmin/database"
	"schooladmin/middleware"
	"schooladmin/models"
	"schooladmin/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TaskController struct{}

func isValidTaskType(t string) bool {
	switch t {
	case "lesson_planning", "grade_assignments", "attendance_marking",
		"parent_meetings", "class_preparation", "administrative", "other":
		return true
	}
	return false
}

func isValidTaskPriority(p string) bool {
	switch p {
	case "low", "medium", "high", "urgent":
		return true
	}
	return false
}

// teacherForUser resolves the Teacher record behind a user, or nil.
func teacherForUser(userID uint) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := database.DB.Where("user_id = ?", userID).First(&teacher).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &teacher, nil
}

// GetTasks lists tasks. Teachers see their own; the principal may pass
// teacher_id to inspect anyone's board.
func (tc *TaskController) GetTasks(c *fiber.Ctx) error {
	actor, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	query := database.DB.Model(&models.Task{})
	if actor.Role == models.RolePrincipal {
		if teacherID := c.Query("teacher_id"); teacherID != "" {
			query = query.Where("teacher_id = ?", teacherID)
		}
	} else {
		teacher, terr := teacherForUser(actor.ID)
		if terr != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to resolve teacher record",
			})
		}
		if teacher == nil {
			return c.JSON(fiber.Map{"tasks": []models.Task{}})
		}
		query = query.Where("teacher_id = ?", teacher.ID)
	}

	if status := c.Query("status"); status != "" {
		if !utils.IsValidTaskStatus(status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid task status",
			})
		}
		query = query.Where("status = ?", status)
	}
	if priority := c.Query("priority"); priority != "" {
		if !isValidTaskPriority(priority) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid task priority",
			})
		}
		query = query.Where("priority = ?", priority)
	}

	var tasks []models.Task
	if err := query.Order("due_date, id").Find(&tasks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch tasks",
		})
	}

	return c.JSON(fiber.Map{
		"tasks": tasks,
	})
}

// CreateTask adds a task to the authenticated teacher's board. A
// teacher-role user without a teacher record cannot own tasks.
func (tc *TaskController) CreateTask(c *fiber.Ctx) error {
	actor, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	var req struct {
		Title       string `json:"title" validate:"required,min=1,max=255"`
		Description string `json:"description"`
		TaskType    string `json:"task_type" validate:"required"`
		Priority    string `json:"priority"`
		DueDate     string `json:"due_date" validate:"required"`
		TeacherID   *uint  `json:"teacher_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}
	if !isValidTaskType(req.TaskType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task type",
		})
	}
	if req.Priority == "" {
		req.Priority = "medium"
	}
	if !isValidTaskPriority(req.Priority) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task priority",
		})
	}

	dueDate, perr := utils.ParseDateOnly(req.DueDate)
	if perr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid due date, expected YYYY-MM-DD",
		})
	}

	var teacherID uint
	if actor.Role == models.RolePrincipal && req.TeacherID != nil {
		var teacher models.Teacher
		if err := database.DB.First(&teacher, *req.TeacherID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Teacher not found",
			})
		}
		teacherID = teacher.ID
	} else {
		teacher, terr := teacherForUser(actor.ID)
		if terr != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to resolve teacher record",
			})
		}
		if teacher == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "No teacher record exists for this user",
			})
		}
		teacherID = teacher.ID
	}

	task := models.Task{
		TeacherID:   teacherID,
		Title:       utils.SanitizeString(req.Title),
		Description: utils.SanitizeString(req.Description),
		TaskType:    req.TaskType,
		Priority:    req.Priority,
		DueDate:     dueDate,
		Status:      models.TaskPending,
	}
	if err := database.DB.Create(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create task",
		})
	}

	middleware.LogActivity(c, "CREATE", "tasks", task.ID, nil)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"task": task,
	})
}

func (tc *TaskController) loadOwnedTask(c *fiber.Ctx) (*models.Task, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var task models.Task
	if err := database.DB.Preload("Teacher").First(&task, uint(id)).Error; err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	if err := middleware.RequireTeacherSelfOrPrincipal(c, &task.Teacher); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask edits task fields. Status changes go through the dedicated
// transition endpoints so CompletedAt stays consistent.
func (tc *TaskController) UpdateTask(c *fiber.Ctx) error {
	task, err := tc.loadOwnedTask(c)
	if task == nil {
		return err
	}

	var req struct {
		Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
		Description *string `json:"description"`
		TaskType    *string `json:"task_type"`
		Priority    *string `json:"priority"`
		DueDate     *string `json:"due_date"`
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
	if req.Title != nil {
		updates["title"] = utils.SanitizeString(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = utils.SanitizeString(*req.Description)
	}
	if req.TaskType != nil {
		if !isValidTaskType(*req.TaskType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid task type",
			})
		}
		updates["task_type"] = *req.TaskType
	}
	if req.Priority != nil {
		if !isValidTaskPriority(*req.Priority) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid task priority",
			})
		}
		updates["priority"] = *req.Priority
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

	if len(updates) > 0 {
		if err := database.DB.Model(task).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update task",
			})
		}
	}

	middleware.LogActivity(c, "UPDATE", "tasks", task.ID, nil)
	return c.JSON(fiber.Map{
		"task": task,
	})
}

// StartTask moves a pending task to in_progress
func (tc *TaskController) StartTask(c *fiber.Ctx) error {
	task, err := tc.loadOwnedTask(c)
	if task == nil {
		return err
	}

	if task.Status != models.TaskPending {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Only pending tasks can be started",
		})
	}

	if err := database.DB.Model(task).Update("status", models.TaskInProgress).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update task",
		})
	}

	middleware.LogActivity(c, "UPDATE", "tasks", task.ID, fiber.Map{"status": models.TaskInProgress})
	return c.JSON(fiber.Map{
		"task": task,
	})
}

// CompleteTask marks a task completed and stamps CompletedAt. This is
// the only path that sets the completion time.
func (tc *TaskController) CompleteTask(c *fiber.Ctx) error {
	task, err := tc.loadOwnedTask(c)
	if task == nil {
		return err
	}

	if task.Status == models.TaskCompleted {
		return c.JSON(fiber.Map{"task": task})
	}
	if task.Status == models.TaskCancelled {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Cancelled tasks cannot be completed",
		})
	}

	now := time.Now()
	if err := database.DB.Model(task).
		Updates(map[string]interface{}{"status": models.TaskCompleted, "completed_at": now}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update task",
		})
	}
	task.Status = models.TaskCompleted
	task.CompletedAt = &now

	middleware.LogActivity(c, "UPDATE", "tasks", task.ID, fiber.Map{"status": models.TaskCompleted})
	return c.JSON(fiber.Map{
		"task": task,
	})
}

// CancelTask cancels a task that is not completed
func (tc *TaskController) CancelTask(c *fiber.Ctx) error {
	task, err := tc.loadOwnedTask(c)
	if task == nil {
		return err
	}

	if task.Status == models.TaskCompleted {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Completed tasks cannot be cancelled",
		})
	}

	if err := database.DB.Model(task).Update("status", models.TaskCancelled).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update task",
		})
	}

	middleware.LogActivity(c, "UPDATE", "tasks", task.ID, fiber.Map{"status": models.TaskCancelled})
	return c.JSON(fiber.Map{
		"task": task,
	})
}

// DeleteTask removes a task. Owner or principal.
func (tc *TaskController) DeleteTask(c *fiber.Ctx) error {
	task, err := tc.loadOwnedTask(c)
	if task == nil {
		return err
	}

	if err := database.DB.Delete(task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete task",
		})
	}

	middleware.LogActivity(c, "DELETE", "tasks", task.ID, nil)
	return c.JSON(fiber.Map{
		"message": "Task deleted successfully",
	})
}

// GetTodayTasks lists the teacher's tasks due today
func (tc *TaskController) GetTodayTasks(c *fiber.Ctx) error {
	actor, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	teacher, terr := teacherForUser(actor.ID)
	if terr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve teacher record",
		})
	}
	if teacher == nil {
		return c.JSON(fiber.Map{"tasks": []models.Task{}})
	}

	today := time.Now().Format("2006-01-02")
	var tasks []models.Task
	if err := database.DB.
		Where("teacher_id = ? AND due_date = ? AND status IN ?", teacher.ID, today,
			[]string{models.TaskPending, models.TaskInProgress}).
		Order("priority DESC, id").Find(&tasks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch tasks",
		})
	}

	return c.JSON(fiber.Map{
		"tasks": tasks,
	})
}

// GetTaskSummary returns the teacher's task counts by status
func (tc *TaskController) GetTaskSummary(c *fiber.Ctx) error {
	actor, err := middleware.GetCurrentUser(c)
	if err != nil {
		return err
	}

	teacher, terr := teacherForUser(actor.ID)
	if terr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve teacher record",
		})
	}
	if teacher == nil {
		return c.JSON(fiber.Map{"summary": fiber.Map{}})
	}

	type row struct {
		Status string
		N      int64
	}
	var rows []row
	if err := database.DB.Model(&models.Task{}).
		Select("status, COUNT(*) AS n").
		Where("teacher_id = ?", teacher.ID).
		Group("status").Scan(&rows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to summarize tasks",
		})
	}

	summary := fiber.Map{
		models.TaskPending:    int64(0),
		models.TaskInProgress: int64(0),
		models.TaskCompleted:  int64(0),
		models.TaskCancelled:  int64(0),
	}
	var total int64
	for _, r := range rows {
		summary[r.Status] = r.N
		total += r.N
	}
	summary["total"] = total

	// Overdue: past due and still open.
	var overdue int64
	database.DB.Model(&models.Task{}).
		Where("teacher_id = ? AND due_date < ? AND status IN ?", teacher.ID,
			time.Now().Format("2006-01-02"),
			[]string{models.TaskPending, models.TaskInProgress}).
		Count(&overdue)
	summary["overdue"] = overdue

	return c.JSON(fiber.Map{
		"summary": summary,
	})
}
