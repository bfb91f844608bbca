package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/archive"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/database"
)

// ArchiveHandler triggers the reset workflow. The scheduler (or an
// operator) calls this; the move itself is one transaction per run.
type ArchiveHandler struct{}

func NewArchiveHandler() *ArchiveHandler { return &ArchiveHandler{} }

// POST /staff/archive/reset?class_id=&scope=both|attendance|gradebook
func (h *ArchiveHandler) Reset(c echo.Context) error {
	scope, ok := archive.ParseScope(strings.TrimSpace(c.QueryParam("scope")))
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_SCOPE"})
	}

	var classID *uint
	if raw := strings.TrimSpace(c.QueryParam("class_id")); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_CLASS_ID"})
		}
		id := uint(n)
		classID = &id
	}

	res, err := archive.Run(database.DB, classID, scope)
	if err != nil {
		// rolled back: nothing was archived, nothing was lost
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "ARCHIVE_FAILED", "detail": err.Error()})
	}
	return c.JSON(http.StatusOK, res)
}
