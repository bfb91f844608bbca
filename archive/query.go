package archive

import (
	"strings"

	"gorm.io/gorm"

	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/models"
)

// QueryLimit caps every history read to bound response size.
const QueryLimit = 1000

// AttendanceFilter narrows attendance history reads. Query substring-matches
// the student's full name or national ID; Present filters by the flag.
type AttendanceFilter struct {
	Query   string
	Present *bool
}

// GradebookFilter narrows gradebook history reads. Query substring-matches
// the student's full name or the subject name.
type GradebookFilter struct {
	Query string
	Kind  models.EntryKind
}

// QueryAttendanceHistory returns archived attendance rows, newest
// archival first, capped at QueryLimit.
func QueryAttendanceHistory(db *gorm.DB, f AttendanceFilter) ([]models.AttendanceHistory, error) {
	q := db.Model(&models.AttendanceHistory{}).Preload("Student")
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Joins("JOIN students ON students.id = attendance_histories.student_id").
			Where("LOWER(students.full_name) LIKE ? OR LOWER(students.national_id) LIKE ?", like, like)
	}
	if f.Present != nil {
		q = q.Where("attendance_histories.present = ?", *f.Present)
	}

	var rows []models.AttendanceHistory
	err := q.Order("attendance_histories.archived_at DESC, attendance_histories.id DESC").
		Limit(QueryLimit).
		Find(&rows).Error
	return rows, err
}

// QueryGradebookHistory returns archived gradebook entries, newest
// archival first, capped at QueryLimit.
func QueryGradebookHistory(db *gorm.DB, f GradebookFilter) ([]models.GradebookEntryHistory, error) {
	q := db.Model(&models.GradebookEntryHistory{}).Preload("Student").Preload("Subject")
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Joins("JOIN students ON students.id = gradebook_entry_histories.student_id").
			Joins("LEFT JOIN subjects ON subjects.id = gradebook_entry_histories.subject_id").
			Where("LOWER(students.full_name) LIKE ? OR LOWER(subjects.name) LIKE ?", like, like)
	}
	if f.Kind.Valid() {
		q = q.Where("gradebook_entry_histories.kind = ?", f.Kind)
	}

	var rows []models.GradebookEntryHistory
	err := q.Order("gradebook_entry_histories.archived_at DESC, gradebook_entry_histories.id DESC").
		Limit(QueryLimit).
		Find(&rows).Error
	return rows, err
}

// ClearAttendanceHistory wipes the attendance archive. Irreversible; the
// caller is responsible for any confirmation step.
func ClearAttendanceHistory(db *gorm.DB) error {
	return db.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.AttendanceHistory{}).Error
}

// ClearGradebookHistory wipes the gradebook archive. Irreversible; the
// caller is responsible for any confirmation step.
func ClearGradebookHistory(db *gorm.DB) error {
	return db.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.GradebookEntryHistory{}).Error
}
