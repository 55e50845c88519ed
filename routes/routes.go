package routes

import (
	"schooladmin/controllers"
	"schooladmin/middleware"
	"schooladmin/services/websocket"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, wsHub *websocket.Hub) {
	authController := &controllers.AuthController{}
	userController := &controllers.UserController{}
	studentController := &controllers.StudentController{}
	teacherController := &controllers.TeacherController{}
	classController := &controllers.ClassController{}
	periodController := &controllers.PeriodController{}
	timetableController := &controllers.TimetableController{}
	attendanceController := &controllers.AttendanceController{}
	feeController := &controllers.FeeController{}
	feeTypeController := &controllers.FeeTypeController{}
	assignmentController := &controllers.AssignmentController{}
	gradeController := &controllers.GradeController{}
	leaveController := &controllers.LeaveController{}
	notificationController := &controllers.NotificationController{}
	taskController := &controllers.TaskController{}
	dashboardController := &controllers.DashboardController{}
	reportController := &controllers.ReportController{}
	healthController := &controllers.HealthController{}
	wsController := controllers.NewWebSocketController(wsHub)

	app.Get("/health", healthController.GetHealth)

	api := app.Group("/api")

	// Authentication (no middleware beyond what each handler needs)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Post("/token/refresh", authController.RefreshToken)
	auth.Post("/logout", middleware.JWTMiddleware(), authController.Logout)
	auth.Get("/user", middleware.JWTMiddleware(), authController.Me)
	auth.Put("/password", middleware.JWTMiddleware(), authController.ChangePassword)

	// Everything below requires a valid access token.
	protected := api.Group("/", middleware.JWTMiddleware(), middleware.LogActivityMiddleware())

	// User management
	users := protected.Group("/users")
	users.Get("/", middleware.RequirePrincipal(), userController.GetUsers)
	users.Post("/", middleware.RequirePrincipal(), userController.CreateUser)
	users.Get("/:id", userController.GetUser)
	users.Put("/:id", userController.UpdateUser)
	users.Patch("/:id", userController.UpdateUser)
	users.Delete("/:id", middleware.RequirePrincipal(), userController.DeleteUser)

	// Students
	students := protected.Group("/students")
	students.Get("/", middleware.RequireTeacherOrAbove(), studentController.GetStudents)
	students.Get("/:id", studentController.GetStudent)
	students.Put("/:id", studentController.UpdateStudent)
	students.Patch("/:id", studentController.UpdateStudent)
	students.Get("/:id/fees", studentController.GetStudentFees)
	students.Get("/:id/attendance", studentController.GetStudentAttendance)
	students.Get("/:id/grades", studentController.GetStudentGrades)

	// Teachers
	teachers := protected.Group("/teachers")
	teachers.Get("/", teacherController.GetTeachers)
	teachers.Get("/:id", teacherController.GetTeacher)
	teachers.Put("/:id", teacherController.UpdateTeacher)
	teachers.Patch("/:id", teacherController.UpdateTeacher)
	teachers.Get("/:id/classes", teacherController.GetTeacherClasses)
	teachers.Get("/:id/students", teacherController.GetTeacherStudents)
	teachers.Get("/:id/timetable", teacherController.GetTeacherTimetable)

	// Classes
	classes := protected.Group("/classes")
	classes.Get("/", classController.GetClasses)
	classes.Get("/:id", classController.GetClass)
	classes.Get("/:id/students", middleware.RequireTeacherOrAbove(), classController.GetClassStudents)
	classes.Get("/:id/timetable", classController.GetClassTimetable)
	classes.Post("/", middleware.RequirePrincipal(), classController.CreateClass)
	classes.Put("/:id", middleware.RequirePrincipal(), classController.UpdateClass)
	classes.Delete("/:id", middleware.RequirePrincipal(), classController.DeleteClass)
	classes.Post("/:id/fees", middleware.RequirePrincipal(), classController.CreateClassFee)

	// Periods
	periods := protected.Group("/periods")
	periods.Get("/", periodController.GetPeriods)
	periods.Post("/", middleware.RequirePrincipal(), periodController.CreatePeriod)
	periods.Put("/:id", middleware.RequirePrincipal(), periodController.UpdatePeriod)
	periods.Delete("/:id", middleware.RequirePrincipal(), periodController.DeletePeriod)

	// Timetable
	timetable := protected.Group("/timetable")
	timetable.Get("/", timetableController.GetTimetable)
	timetable.Post("/", middleware.RequirePrincipal(), timetableController.CreateTimetableEntry)
	timetable.Put("/:id", middleware.RequirePrincipal(), timetableController.UpdateTimetableEntry)
	timetable.Delete("/:id", middleware.RequirePrincipal(), timetableController.DeleteTimetableEntry)

	// Attendance
	attendance := protected.Group("/attendance")
	attendance.Post("/", middleware.RequireTeacherOrAbove(), attendanceController.MarkAttendance)
	attendance.Post("/class/:class_id", middleware.RequireTeacherOrAbove(), attendanceController.MarkClassAttendance)
	attendance.Get("/class/:class_id", middleware.RequireTeacherOrAbove(), attendanceController.GetClassAttendance)
	attendance.Put("/:id", middleware.RequireTeacherOrAbove(), attendanceController.UpdateAttendance)
	attendance.Delete("/:id", middleware.RequirePrincipal(), attendanceController.DeleteAttendance)

	// Fees
	fees := protected.Group("/fees")
	fees.Get("/", middleware.RequirePrincipal(), feeController.GetFees)
	fees.Post("/", middleware.RequirePrincipal(), feeController.CreateFee)
	fees.Post("/reminders", middleware.RequirePrincipal(), feeController.SendReminders)
	fees.Get("/summary", middleware.RequirePrincipal(), feeController.GetSummary)
	fees.Get("/:id", feeController.GetFee)
	fees.Put("/:id", middleware.RequirePrincipal(), feeController.UpdateFee)
	fees.Delete("/:id", middleware.RequirePrincipal(), feeController.DeleteFee)
	fees.Post("/:id/pay", middleware.RequirePrincipal(), feeController.PayFee)

	// Fee types
	feeTypes := protected.Group("/fee-types")
	feeTypes.Get("/", feeTypeController.GetFeeTypes)
	feeTypes.Post("/", middleware.RequirePrincipal(), feeTypeController.CreateFeeType)
	feeTypes.Put("/:id", middleware.RequirePrincipal(), feeTypeController.UpdateFeeType)
	feeTypes.Delete("/:id", middleware.RequirePrincipal(), feeTypeController.DeleteFeeType)

	// Assignments and grading
	assignments := protected.Group("/assignments")
	assignments.Get("/", assignmentController.GetAssignments)
	assignments.Get("/:id", assignmentController.GetAssignment)
	assignments.Post("/", middleware.RequireTeacherOrAbove(), assignmentController.CreateAssignment)
	assignments.Put("/:id", middleware.RequireTeacherOrAbove(), assignmentController.UpdateAssignment)
	assignments.Delete("/:id", middleware.RequireTeacherOrAbove(), assignmentController.DeleteAssignment)
	assignments.Post("/:id/grades", middleware.RequireTeacherOrAbove(), assignmentController.GradeAssignment)

	// Grades
	grades := protected.Group("/grades")
	grades.Get("/", middleware.RequireTeacherOrAbove(), gradeController.GetGrades)
	grades.Get("/:id", gradeController.GetGrade)
	grades.Delete("/:id", middleware.RequireTeacherOrAbove(), gradeController.DeleteGrade)

	// Leave requests
	leaves := protected.Group("/leave-requests")
	leaves.Get("/", leaveController.GetLeaveRequests)
	leaves.Post("/", leaveController.CreateLeaveRequest)
	leaves.Put("/:id/decision", middleware.RequirePrincipal(), leaveController.DecideLeaveRequest)
	leaves.Patch("/:id/decision", middleware.RequirePrincipal(), leaveController.DecideLeaveRequest)
	leaves.Delete("/:id", leaveController.DeleteLeaveRequest)

	// Notifications
	notifications := protected.Group("/notifications")
	notifications.Get("/", notificationController.GetNotifications)
	notifications.Get("/unread-count", notificationController.GetUnreadCount)
	notifications.Put("/read-all", notificationController.MarkAllAsRead)
	notifications.Put("/:id/read", notificationController.MarkAsRead)
	notifications.Delete("/:id", notificationController.DeleteNotification)
	notifications.Post("/broadcast", middleware.RequirePrincipal(), notificationController.Broadcast)

	// Teacher tasks
	tasks := protected.Group("/tasks", middleware.RequireTeacherOrAbove())
	tasks.Get("/", taskController.GetTasks)
	tasks.Post("/", taskController.CreateTask)
	tasks.Get("/today", taskController.GetTodayTasks)
	tasks.Get("/summary", taskController.GetTaskSummary)
	tasks.Put("/:id", taskController.UpdateTask)
	tasks.Post("/:id/start", taskController.StartTask)
	tasks.Post("/:id/complete", taskController.CompleteTask)
	tasks.Post("/:id/cancel", taskController.CancelTask)
	tasks.Delete("/:id", taskController.DeleteTask)

	// Dashboard
	protected.Get("/dashboard", dashboardController.GetDashboard)

	// Reports
	reports := protected.Group("/reports", middleware.RequirePrincipal())
	reports.Post("/generate", reportController.GenerateReport)
	reports.Get("/runs", reportController.GetReportRuns)
	reports.Get("/runs/:run_id", reportController.GetReportRun)

	// WebSocket stats
	protected.Get("/ws/stats", middleware.RequirePrincipal(), wsController.Stats)

	// WebSocket notification stream
	app.Use("/ws/notifications", wsController.Upgrade)
	app.Get("/ws/notifications", wsController.Serve())
}
