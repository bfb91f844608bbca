package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/archive"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/database"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/models"
)

type HistoryHandler struct{}

func NewHistoryHandler() *HistoryHandler { return &HistoryHandler{} }

func attendanceFilter(c echo.Context) archive.AttendanceFilter {
	f := archive.AttendanceFilter{Query: strings.TrimSpace(c.QueryParam("q"))}
	switch c.QueryParam("present") {
	case "1":
		t := true
		f.Present = &t
	case "0":
		fa := false
		f.Present = &fa
	}
	return f
}

func gradebookFilter(c echo.Context) archive.GradebookFilter {
	return archive.GradebookFilter{
		Query: strings.TrimSpace(c.QueryParam("q")),
		Kind:  models.EntryKind(strings.TrimSpace(c.QueryParam("kind"))),
	}
}

// GET /staff/history/attendance?q=&present=0|1
func (h *HistoryHandler) Attendance(c echo.Context) error {
	rows, err := archive.QueryAttendanceHistory(database.DB, attendanceFilter(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /staff/history/gradebook?q=&kind=pos|neg|num
func (h *HistoryHandler) Gradebook(c echo.Context) error {
	rows, err := archive.QueryGradebookHistory(database.DB, gradebookFilter(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rows)
}

// DELETE /staff/history/attendance
// Irreversible wipe; the UI asks for confirmation, this endpoint does not.
func (h *HistoryHandler) ClearAttendance(c echo.Context) error {
	if err := archive.ClearAttendanceHistory(database.DB); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// DELETE /staff/history/gradebook
func (h *HistoryHandler) ClearGradebook(c echo.Context) error {
	if err := archive.ClearGradebookHistory(database.DB); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GET /staff/history/attendance/export
func (h *HistoryHandler) ExportAttendance(c echo.Context) error {
	rows, err := archive.QueryAttendanceHistory(database.DB, attendanceFilter(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetRow(sheet, "A1", &[]any{"Student", "National ID", "Date", "Date (Jalali)", "Present", "Archived At"})
	for i, r := range rows {
		name, nid := "", ""
		if r.Student != nil {
			name, nid = r.Student.FullName, r.Student.NationalID
		}
		jal := ""
		if r.DateJalali != nil {
			jal = *r.DateJalali
		}
		_ = f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &[]any{
			name, nid, r.Date.Format("2006-01-02"), jal, r.Present, r.ArchivedAt.Format("2006-01-02 15:04:05"),
		})
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="attendance_history.xlsx"`)
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}

// GET /staff/history/gradebook/export
func (h *HistoryHandler) ExportGradebook(c echo.Context) error {
	rows, err := archive.QueryGradebookHistory(database.DB, gradebookFilter(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetRow(sheet, "A1", &[]any{"Student", "Subject", "Kind", "Value", "Date", "Date (Jalali)", "Notes", "Archived At"})
	for i, r := range rows {
		name, subj := "", ""
		if r.Student != nil {
			name = r.Student.FullName
		}
		if r.Subject != nil {
			subj = r.Subject.Name
		}
		val := ""
		if r.Value != nil {
			val = r.Value.StringFixed(2)
		}
		date := ""
		if r.Date != nil {
			date = r.Date.Format("2006-01-02")
		}
		jal := ""
		if r.DateJalali != nil {
			jal = *r.DateJalali
		}
		_ = f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &[]any{
			name, subj, string(r.Kind), val, date, jal, r.Notes, r.ArchivedAt.Format("2006-01-02 15:04:05"),
		})
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="gradebook_history.xlsx"`)
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}
