package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/jalali"
)

// Attendance records one presence flag per student per day.
type Attendance struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	StudentID  uint      `json:"student_id" gorm:"uniqueIndex:uniq_attendance_student_date;not null"`
	Date       time.Time `json:"date" gorm:"type:date;uniqueIndex:uniq_attendance_student_date;not null"`
	DateJalali *string   `json:"date_jalali,omitempty" gorm:"size:20"`
	// No column default: a default-tagged bool would drop a false value
	// from the INSERT, and absences are the whole point of the row.
	Present bool `json:"present" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Attendance) BeforeSave(tx *gorm.DB) error {
	if a.Date.IsZero() {
		a.DateJalali = nil
		return nil
	}
	if s, err := jalali.ToJalali(a.Date); err == nil {
		a.DateJalali = &s
	}
	return nil
}
