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

type SubjectHandler struct{}

func NewSubjectHandler() *SubjectHandler { return &SubjectHandler{} }

// GET /staff/classes/:id/subjects
func (h *SubjectHandler) List(c echo.Context) error {
	classID, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var subjects []models.Subject
	if err := database.DB.Where("class_id = ?", classID).Order("id ASC").Find(&subjects).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, subjects)
}

type subjectReq struct {
	Name        string `json:"name" validate:"required,max=150"`
	TeacherName string `json:"teacher_name" validate:"max=200"`
}

// POST /staff/classes/:id/subjects
func (h *SubjectHandler) Create(c echo.Context) error {
	classID, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var req subjectReq
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

	rec := models.Subject{
		ClassID:     classID,
		Name:        strings.TrimSpace(req.Name),
		TeacherName: strings.TrimSpace(req.TeacherName),
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusConflict, map[string]any{"error": "SUBJECT_NAME_EXISTS"})
		}
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

// PUT /staff/subjects/:id — rename and/or reassign the teacher
func (h *SubjectHandler) Update(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var req subjectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	var subj models.Subject
	if err := database.DB.First(&subj, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "SUBJECT_NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		subj.Name = name
	}
	if teacher := strings.TrimSpace(req.TeacherName); teacher != "" {
		subj.TeacherName = teacher
	}
	if err := database.DB.Save(&subj).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusConflict, map[string]any{"error": "SUBJECT_NAME_EXISTS"})
		}
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, subj)
}

// DELETE /staff/subjects/:id
func (h *SubjectHandler) Delete(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	res := database.DB.Delete(&models.Subject{}, id)
	if res.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "SUBJECT_NOT_FOUND"})
	}
	return c.NoContent(http.StatusNoContent)
}
