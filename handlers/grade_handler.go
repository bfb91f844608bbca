package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/database"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/models"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/scoring"
)

type GradeHandler struct{}

func NewGradeHandler() *GradeHandler { return &GradeHandler{} }

// GET /staff/students/:id/grades
func (h *GradeHandler) List(c echo.Context) error {
	studentID, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var student models.Student
	if err := database.DB.First(&student, studentID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}

	var grades []models.Grade
	if err := database.DB.Preload("Subject").
		Where("student_id = ?", studentID).Order("subject_id ASC").Find(&grades).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	var avgOut *decimal.Decimal
	if avg, ok, err := scoring.StudentAverage(database.DB, studentID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	} else if ok {
		avgOut = &avg
	}
	return c.JSON(http.StatusOK, map[string]any{"grades": grades, "average": avgOut})
}

type gradeItem struct {
	SubjectID uint            `json:"subject_id" validate:"required"`
	Score     decimal.Decimal `json:"score"`
}

type putGradesReq struct {
	Scores []gradeItem `json:"scores" validate:"required,dive"`
}

// PUT /staff/students/:id/grades
// Upserts the official base score per subject; resubmitting the same
// payload is idempotent by design (one Grade per student+subject).
func (h *GradeHandler) Put(c echo.Context) error {
	studentID, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var req putGradesReq
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

	for _, item := range req.Scores {
		if err := models.ValidateScore(item.Score); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "SCORE_OUT_OF_RANGE", "detail": err.Error()})
		}
		// subject must belong to the student's class
		var subj models.Subject
		if err := database.DB.Where("id = ? AND class_id = ?", item.SubjectID, student.ClassID).
			First(&subj).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.JSON(http.StatusBadRequest, map[string]any{"error": "SUBJECT_NOT_IN_CLASS"})
			}
			return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
		}
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		for _, item := range req.Scores {
			rec := models.Grade{StudentID: studentID, SubjectID: item.SubjectID, Score: item.Score}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "student_id"}, {Name: "subject_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
			}).Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return h.List(c)
}
