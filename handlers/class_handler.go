package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/database"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/models"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/scoring"
)

type ClassHandler struct{}

func NewClassHandler() *ClassHandler { return &ClassHandler{} }

// GET /staff/classes
func (h *ClassHandler) List(c echo.Context) error {
	var classes []models.SchoolClass
	if err := database.DB.Order("name ASC").Find(&classes).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, classes)
}

type createClassReq struct {
	Name string `json:"name" validate:"required,max=150"`
}

// POST /staff/classes
func (h *ClassHandler) Create(c echo.Context) error {
	var req createClassReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	rec := models.SchoolClass{Name: strings.TrimSpace(req.Name)}
	if err := database.DB.Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusConflict, map[string]any{"error": "CLASS_NAME_EXISTS"})
		}
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

// GET /staff/classes/:id
// Returns the class with its students (each carrying the recomputed
// average), subjects, raw grade total/average and recent attendance.
func (h *ClassHandler) Detail(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	var sc models.SchoolClass
	if err := database.DB.First(&sc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "CLASS_NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	var students []models.Student
	if err := database.DB.Where("class_id = ?", id).
		Order("roll_number ASC, full_name ASC").Find(&students).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	var subjects []models.Subject
	if err := database.DB.Where("class_id = ?", id).Order("id ASC").Find(&subjects).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	type studentRow struct {
		models.Student
		Average *decimal.Decimal `json:"average"`
	}
	rows := make([]studentRow, 0, len(students))
	for _, s := range students {
		row := studentRow{Student: s}
		if avg, ok, err := scoring.StudentAverage(database.DB, s.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
		} else if ok {
			row.Average = &avg
		}
		rows = append(rows, row)
	}

	// class total/average over raw base grades only
	var grades []models.Grade
	if err := database.DB.Joins("JOIN subjects ON subjects.id = grades.subject_id").
		Where("subjects.class_id = ?", id).Find(&grades).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	total := decimal.Zero
	for _, g := range grades {
		total = total.Add(g.Score)
	}
	var classAvg *decimal.Decimal
	if avg, ok, err := scoring.ClassAverage(database.DB, id); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	} else if ok {
		classAvg = &avg
	}

	var attendances []models.Attendance
	if err := database.DB.Joins("JOIN students ON students.id = attendances.student_id").
		Where("students.class_id = ?", id).
		Order("attendances.date DESC, attendances.id DESC").
		Limit(200).
		Find(&attendances).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"class":       sc,
		"students":    rows,
		"subjects":    subjects,
		"class_total": total.Round(2),
		"class_avg":   classAvg,
		"attendances": attendances,
	})
}

// DELETE /staff/classes/:id
// Cascades to students, subjects and their live records; archived
// history is untouched except through its own FK rules.
func (h *ClassHandler) Delete(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	res := database.DB.Delete(&models.SchoolClass{}, id)
	if res.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "CLASS_NOT_FOUND"})
	}
	return c.NoContent(http.StatusNoContent)
}
