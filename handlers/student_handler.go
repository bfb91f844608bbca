package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/database"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/models"
)

// MaxInitialSubjects caps the comma-separated subject list accepted when
// the first students of a class are registered.
const MaxInitialSubjects = 13

type StudentHandler struct{}

func NewStudentHandler() *StudentHandler { return &StudentHandler{} }

// GET /staff/classes/:id/students
func (h *StudentHandler) List(c echo.Context) error {
	classID, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var students []models.Student
	if err := database.DB.Where("class_id = ?", classID).
		Order("roll_number ASC, full_name ASC").Find(&students).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, students)
}

type studentReq struct {
	FullName   string `json:"full_name" validate:"required,max=200"`
	RollNumber uint   `json:"roll_number" validate:"required"`
	NationalID string `json:"national_id" validate:"omitempty,numeric,min=8,max=20"`
	Password   string `json:"password" validate:"max=128"`
	Phone1     string `json:"phone1" validate:"max=20"`
	Phone2     string `json:"phone2" validate:"max=20"`
	Phone3     string `json:"phone3" validate:"max=20"`
	Email1     string `json:"email1" validate:"omitempty,email"`
	Email2     string `json:"email2" validate:"omitempty,email"`
	// Comma-separated subject names, honored only while the class has no
	// subjects yet.
	InitialSubjects string `json:"initial_subjects"`
}

func (r *studentReq) apply(s *models.Student) {
	s.FullName = strings.TrimSpace(r.FullName)
	s.RollNumber = r.RollNumber
	s.NationalID = strings.TrimSpace(r.NationalID)
	if r.Password != "" {
		s.Password = r.Password
	}
	s.Phone1, s.Phone2, s.Phone3 = strings.TrimSpace(r.Phone1), strings.TrimSpace(r.Phone2), strings.TrimSpace(r.Phone3)
	s.Email1, s.Email2 = strings.TrimSpace(r.Email1), strings.TrimSpace(r.Email2)
}

// POST /staff/classes/:id/students
func (h *StudentHandler) Create(c echo.Context) error {
	classID, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var req studentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var sc models.SchoolClass
	if err := database.DB.First(&sc, classID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "CLASS_NOT_FOUND"})
	}

	names := splitCSV(req.InitialSubjects)
	if len(names) > MaxInitialSubjects {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "TOO_MANY_SUBJECTS", "max": MaxInitialSubjects})
	}

	student := models.Student{ClassID: classID}
	req.apply(&student)

	// Student plus any bootstrap subjects land together or not at all.
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&student).Error; err != nil {
			return err
		}
		if len(names) == 0 {
			return nil
		}
		var existing int64
		if err := tx.Model(&models.Subject{}).Where("class_id = ?", classID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}
		for _, name := range names {
			if err := tx.Create(&models.Subject{ClassID: classID, Name: name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusConflict, map[string]any{"error": "ROLL_NUMBER_EXISTS"})
		}
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, student)
}

// PUT /staff/students/:id
func (h *StudentHandler) Update(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var req studentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var student models.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	req.apply(&student)
	if err := database.DB.Save(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusConflict, map[string]any{"error": "ROLL_NUMBER_EXISTS"})
		}
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, student)
}

// DELETE /staff/students/:id
func (h *StudentHandler) Delete(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	res := database.DB.Delete(&models.Student{}, id)
	if res.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
	}
	return c.NoContent(http.StatusNoContent)
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
