package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/database"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/middlewares"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/models"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/scoring"
)

type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler { return &DashboardHandler{} }

// GET /student/dashboard
// The student identity comes from the session claims attached by the
// auth middleware — there is no ambient "current student" state.
func (h *DashboardHandler) StudentDashboard(c echo.Context) error {
	sess := middlewares.SessionFrom(c)
	if sess == nil {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_TOKEN"})
	}

	var student models.Student
	if err := database.DB.First(&student, sess.Sub).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}

	var grades []models.Grade
	if err := database.DB.Preload("Subject").
		Where("student_id = ?", student.ID).Order("subject_id ASC").Find(&grades).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	var entries []models.GradebookEntry
	if err := database.DB.Preload("Subject").
		Where("student_id = ?", student.ID).
		Order("date DESC, created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	var attendances []models.Attendance
	if err := database.DB.Where("student_id = ?", student.ID).
		Order("date DESC, id DESC").Find(&attendances).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	var subjects []models.Subject
	if err := database.DB.Where("class_id = ?", student.ClassID).Order("id ASC").Find(&subjects).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	var avgOut *decimal.Decimal
	if avg, ok, err := scoring.StudentAverage(database.DB, student.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	} else if ok {
		avgOut = &avg
	}

	return c.JSON(http.StatusOK, map[string]any{
		"student":           student,
		"grades":            grades,
		"gradebook_entries": entries,
		"attendances":       attendances,
		"subjects":          subjects,
		"average":           avgOut,
	})
}
