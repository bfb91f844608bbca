package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/database"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/jalali"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/models"
)

type AttendanceHandler struct{}

func NewAttendanceHandler() *AttendanceHandler { return &AttendanceHandler{} }

// GET /staff/classes/:id/attendance?date=YYYY-MM-DD|YYYY/MM/DD
func (h *AttendanceHandler) List(c echo.Context) error {
	classID, err := uintParam(c, "id")
	if err != nil {
		return err
	}

	tx := database.DB.Model(&models.Attendance{}).
		Joins("JOIN students ON students.id = attendances.student_id").
		Where("students.class_id = ?", classID)

	if raw := strings.TrimSpace(c.QueryParam("date")); raw != "" {
		date, err := jalali.ParseDate(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_DATE", "input": raw})
		}
		tx = tx.Where("attendances.date = ?", date)
	}

	var rows []models.Attendance
	if err := tx.Order("attendances.date DESC, attendances.id DESC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

type markAttendanceReq struct {
	// Accepted as Gregorian YYYY-MM-DD or Jalali YYYY/MM/DD.
	Date    string `json:"date" validate:"required"`
	Records []struct {
		StudentID uint `json:"student_id" validate:"required"`
		Present   bool `json:"present"`
	} `json:"records" validate:"required,dive"`
}

// POST /staff/classes/:id/attendance
// Insert-or-update per (student, date): marking the same day twice is a
// correction, not a conflict.
func (h *AttendanceHandler) Mark(c echo.Context) error {
	classID, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	var req markAttendanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	date, err := jalali.ParseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_DATE", "input": req.Date})
	}

	var classStudents []models.Student
	if err := database.DB.Where("class_id = ?", classID).Find(&classStudents).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	inClass := make(map[uint]bool, len(classStudents))
	for _, s := range classStudents {
		inClass[s.ID] = true
	}

	saved := 0
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		for _, r := range req.Records {
			if !inClass[r.StudentID] {
				return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "STUDENT_NOT_IN_CLASS"})
			}
			rec := models.Attendance{StudentID: r.StudentID, Date: date, Present: r.Present}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "student_id"}, {Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{"present", "date_jalali", "updated_at"}),
			}).Create(&rec).Error; err != nil {
				return err
			}
			saved++
		}
		return nil
	})
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"saved": saved, "date": date.Format("2006-01-02")})
}

// DELETE /staff/attendance/:student_id/:date
func (h *AttendanceHandler) Delete(c echo.Context) error {
	studentID, err := uintParam(c, "student_id")
	if err != nil {
		return err
	}
	date, err := jalali.ParseDate(c.Param("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_DATE", "input": c.Param("date")})
	}

	res := database.DB.Where("student_id = ? AND date = ?", studentID, date).Delete(&models.Attendance{})
	if res.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "ATTENDANCE_NOT_FOUND"})
	}
	return c.NoContent(http.StatusNoContent)
}
