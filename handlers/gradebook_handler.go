package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/database"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/jalali"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/models"
)

type GradebookHandler struct{}

func NewGradebookHandler() *GradebookHandler { return &GradebookHandler{} }

// GET /staff/students/:id/gradebook
func (h *GradebookHandler) List(c echo.Context) error {
	studentID, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var student models.Student
	if err := database.DB.First(&student, studentID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}
	var entries []models.GradebookEntry
	if err := database.DB.Preload("Subject").
		Where("student_id = ?", studentID).
		Order("date DESC, created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, entries)
}

type entryReq struct {
	SubjectID *uint            `json:"subject_id"`
	Kind      models.EntryKind `json:"kind" validate:"required"`
	Value     *decimal.Decimal `json:"value"`
	// Accepted as Gregorian YYYY-MM-DD or Jalali YYYY/MM/DD.
	Date  string `json:"date" validate:"required"`
	Notes string `json:"notes"`
}

func (r *entryReq) apply(db *gorm.DB, classID uint, e *models.GradebookEntry) (int, map[string]any) {
	date, err := jalali.ParseDate(r.Date)
	if err != nil {
		var fe *jalali.FormatError
		if errors.As(err, &fe) {
			return http.StatusBadRequest, map[string]any{"error": "INVALID_DATE", "input": fe.Input}
		}
		return http.StatusBadRequest, map[string]any{"error": "INVALID_DATE"}
	}

	if r.SubjectID != nil {
		var subj models.Subject
		if err := db.Where("id = ? AND class_id = ?", *r.SubjectID, classID).First(&subj).Error; err != nil {
			return http.StatusBadRequest, map[string]any{"error": "SUBJECT_NOT_IN_CLASS"}
		}
	}

	e.SubjectID = r.SubjectID
	e.Kind = r.Kind
	e.Value = r.Value
	e.Date = date
	e.Notes = strings.TrimSpace(r.Notes)

	if err := e.Validate(); err != nil {
		return http.StatusBadRequest, map[string]any{"error": "INVALID_ENTRY", "detail": err.Error()}
	}
	return 0, nil
}

// POST /staff/students/:id/gradebook
func (h *GradebookHandler) Create(c echo.Context) error {
	studentID, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var req entryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var student models.Student
	if err := database.DB.First(&student, studentID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}

	entry := models.GradebookEntry{StudentID: studentID}
	if status, body := req.apply(database.DB, student.ClassID, &entry); status != 0 {
		return c.JSON(status, body)
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, entry)
}

// PUT /staff/gradebook/:id
func (h *GradebookHandler) Update(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var req entryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var entry models.GradebookEntry
	if err := database.DB.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "ENTRY_NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	var student models.Student
	if err := database.DB.First(&student, entry.StudentID).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	if status, body := req.apply(database.DB, student.ClassID, &entry); status != 0 {
		return c.JSON(status, body)
	}
	if err := database.DB.Save(&entry).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, entry)
}

// DELETE /staff/gradebook/:id
func (h *GradebookHandler) Delete(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	res := database.DB.Delete(&models.GradebookEntry{}, id)
	if res.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "ENTRY_NOT_FOUND"})
	}
	return c.NoContent(http.StatusNoContent)
}
