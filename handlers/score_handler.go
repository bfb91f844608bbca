package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/database"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/scoring"
)

// ScoreHandler exposes the on-demand aggregation results. Nothing is
// cached: every request recomputes from live rows.
type ScoreHandler struct{}

func NewScoreHandler() *ScoreHandler { return &ScoreHandler{} }

// GET /staff/students/:id/subjects/:subject_id/score
func (h *ScoreHandler) EffectiveScore(c echo.Context) error {
	studentID, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	subjectID, err := uintParam(c, "subject_id")
	if err != nil {
		return err
	}

	score, ok, err := scoring.EffectiveScore(database.DB, studentID, subjectID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	if !ok {
		return c.JSON(http.StatusOK, map[string]any{"score": nil})
	}
	return c.JSON(http.StatusOK, map[string]any{"score": score})
}

// GET /staff/students/:id/average
func (h *ScoreHandler) StudentAverage(c echo.Context) error {
	studentID, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	avg, ok, err := scoring.StudentAverage(database.DB, studentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	if !ok {
		return c.JSON(http.StatusOK, map[string]any{"average": nil})
	}
	return c.JSON(http.StatusOK, map[string]any{"average": avg})
}

// GET /staff/classes/:id/average
func (h *ScoreHandler) ClassAverage(c echo.Context) error {
	classID, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	avg, ok, err := scoring.ClassAverage(database.DB, classID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	if !ok {
		return c.JSON(http.StatusOK, map[string]any{"average": nil})
	}
	return c.JSON(http.StatusOK, map[string]any{"average": avg})
}
