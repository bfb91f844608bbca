// Package archive moves live attendance and gradebook rows into their
// append-only history tables and serves read access over the archive.
// Each run is one transaction: the select-materialize-insert-delete
// sequence either completes for the whole batch or leaves the live
// tables untouched.
package archive

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/models"
)

// Scope selects which record kinds a run archives.
type Scope string

const (
	ScopeBoth           Scope = "both"
	ScopeAttendanceOnly Scope = "attendance"
	ScopeGradebookOnly  Scope = "gradebook"
)

// ParseScope maps a request parameter onto a Scope; empty means both.
func ParseScope(s string) (Scope, bool) {
	switch Scope(s) {
	case "", ScopeBoth:
		return ScopeBoth, true
	case ScopeAttendanceOnly:
		return ScopeAttendanceOnly, true
	case ScopeGradebookOnly:
		return ScopeGradebookOnly, true
	}
	return "", false
}

// Error marks a failed archive run. The transaction has been rolled
// back: no rows were moved and no rows were lost. The caller (normally
// the scheduler) decides whether to re-invoke.
type Error struct {
	Step string
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("archive %s: %v", e.Step, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Result counts the rows moved by one run.
type Result struct {
	AttendanceArchived int `json:"attendance_archived"`
	GradebookArchived  int `json:"gradebook_archived"`
}

// Run archives live rows into the history tables and deletes them from
// the live side, optionally limited to one class and/or one record kind.
// A run over already-drained tables is a no-op returning {0,0}.
func Run(db *gorm.DB, classID *uint, scope Scope) (Result, error) {
	var res Result
	now := time.Now().UTC()

	err := db.Transaction(func(tx *gorm.DB) error {
		if scope != ScopeGradebookOnly {
			n, err := archiveAttendance(tx, classID, now)
			if err != nil {
				return err
			}
			res.AttendanceArchived = n
		}
		if scope != ScopeAttendanceOnly {
			n, err := archiveGradebook(tx, classID, now)
			if err != nil {
				return err
			}
			res.GradebookArchived = n
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func archiveAttendance(tx *gorm.DB, classID *uint, now time.Time) (int, error) {
	q := tx.Model(&models.Attendance{})
	if classID != nil {
		q = q.Joins("JOIN students ON students.id = attendances.student_id").
			Where("students.class_id = ?", *classID)
	}

	// Materialize the full batch before touching anything; the delete
	// below works off these IDs, never off a re-run of the filter.
	var live []models.Attendance
	if err := q.Find(&live).Error; err != nil {
		return 0, &Error{Step: "attendance select", Err: err}
	}
	if len(live) == 0 {
		return 0, nil
	}

	hist := make([]models.AttendanceHistory, 0, len(live))
	ids := make([]uint, 0, len(live))
	for _, a := range live {
		hist = append(hist, models.AttendanceHistory{
			StudentID:  a.StudentID,
			Date:       a.Date,
			DateJalali: a.DateJalali, // copied verbatim, not re-derived
			Present:    a.Present,
			ArchivedAt: now,
		})
		ids = append(ids, a.ID)
	}
	if err := tx.CreateInBatches(&hist, 500).Error; err != nil {
		return 0, &Error{Step: "attendance insert", Err: err}
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.Attendance{}).Error; err != nil {
		return 0, &Error{Step: "attendance delete", Err: err}
	}
	return len(live), nil
}

func archiveGradebook(tx *gorm.DB, classID *uint, now time.Time) (int, error) {
	q := tx.Model(&models.GradebookEntry{})
	if classID != nil {
		q = q.Joins("JOIN students ON students.id = gradebook_entries.student_id").
			Where("students.class_id = ?", *classID)
	}

	var live []models.GradebookEntry
	if err := q.Find(&live).Error; err != nil {
		return 0, &Error{Step: "gradebook select", Err: err}
	}
	if len(live) == 0 {
		return 0, nil
	}

	hist := make([]models.GradebookEntryHistory, 0, len(live))
	ids := make([]uint, 0, len(live))
	for _, e := range live {
		date := e.Date
		hist = append(hist, models.GradebookEntryHistory{
			StudentID:  e.StudentID,
			SubjectID:  e.SubjectID,
			Kind:       e.Kind,
			Value:      e.Value,
			Date:       &date,
			DateJalali: e.DateJalali, // copied verbatim, not re-derived
			Notes:      e.Notes,
			ArchivedAt: now,
		})
		ids = append(ids, e.ID)
	}
	if err := tx.CreateInBatches(&hist, 500).Error; err != nil {
		return 0, &Error{Step: "gradebook insert", Err: err}
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.GradebookEntry{}).Error; err != nil {
		return 0, &Error{Step: "gradebook delete", Err: err}
	}
	return len(live), nil
}
