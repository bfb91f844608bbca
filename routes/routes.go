package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/config"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/handlers"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/middlewares"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, cfg *config.Config) {
	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler(cfg.JWTSecret)
	cls := handlers.NewClassHandler()
	subj := handlers.NewSubjectHandler()
	std := handlers.NewStudentHandler()
	grd := handlers.NewGradeHandler()
	gb := handlers.NewGradebookHandler()
	att := handlers.NewAttendanceHandler()
	score := handlers.NewScoreHandler()
	arc := handlers.NewArchiveHandler()
	hist := handlers.NewHistoryHandler()
	dash := handlers.NewDashboardHandler()

	// ===== Public =====
	e.GET("/healthz", handlers.Health)
	e.POST("/auth/staff/login", auth.StaffLogin)
	e.POST("/auth/student/login", auth.StudentLogin)

	authMW := middlewares.RequireAuth(cfg.JWTSecret)

	// ===== Staff routes =====
	staff := e.Group("/staff", authMW, middlewares.RequireRole("staff", "admin"))

	staff.GET("/classes", cls.List)
	staff.POST("/classes", cls.Create)
	staff.GET("/classes/:id", cls.Detail)
	staff.DELETE("/classes/:id", cls.Delete)
	staff.GET("/classes/:id/average", score.ClassAverage)

	staff.GET("/classes/:id/subjects", subj.List)
	staff.POST("/classes/:id/subjects", subj.Create)
	staff.PUT("/subjects/:id", subj.Update)
	staff.DELETE("/subjects/:id", subj.Delete)

	staff.GET("/classes/:id/students", std.List)
	staff.POST("/classes/:id/students", std.Create)
	staff.PUT("/students/:id", std.Update)
	staff.DELETE("/students/:id", std.Delete)

	staff.GET("/students/:id/grades", grd.List)
	staff.PUT("/students/:id/grades", grd.Put)
	staff.GET("/students/:id/average", score.StudentAverage)
	staff.GET("/students/:id/subjects/:subject_id/score", score.EffectiveScore)

	staff.GET("/students/:id/gradebook", gb.List)
	staff.POST("/students/:id/gradebook", gb.Create)
	staff.PUT("/gradebook/:id", gb.Update)
	staff.DELETE("/gradebook/:id", gb.Delete)

	staff.GET("/classes/:id/attendance", att.List)
	staff.POST("/classes/:id/attendance", att.Mark)
	staff.DELETE("/attendance/:student_id/:date", att.Delete)

	// archive & history
	staff.POST("/archive/reset", arc.Reset)
	staff.GET("/history/attendance", hist.Attendance)
	staff.GET("/history/attendance/export", hist.ExportAttendance)
	staff.DELETE("/history/attendance", hist.ClearAttendance)
	staff.GET("/history/gradebook", hist.Gradebook)
	staff.GET("/history/gradebook/export", hist.ExportGradebook)
	staff.DELETE("/history/gradebook", hist.ClearGradebook)

	// ===== Student routes =====
	student := e.Group("/student", authMW, middlewares.RequireRole("student"))
	student.GET("/dashboard", dash.StudentDashboard)
	student.POST("/logout", auth.StudentLogout)
}
