package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// History rows are append-only snapshots taken by the archive workflow.
// They carry no uniqueness constraints (several runs may reference the
// same student/date) and deliberately have no save hooks: the archived
// DateJalali is copied verbatim from the live row, never recomputed.

type AttendanceHistory struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	StudentID  uint      `json:"student_id" gorm:"index;not null"`
	Date       time.Time `json:"date" gorm:"type:date;not null"`
	DateJalali *string   `json:"date_jalali,omitempty" gorm:"size:20"`
	Present    bool      `json:"present"`
	ArchivedAt time.Time `json:"archived_at" gorm:"index;not null"`

	Student *Student `json:"student,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

type GradebookEntryHistory struct {
	ID         uint             `json:"id" gorm:"primaryKey"`
	StudentID  uint             `json:"student_id" gorm:"index;not null"`
	SubjectID  *uint            `json:"subject_id,omitempty"`
	Kind       EntryKind        `json:"kind" gorm:"size:8;not null"`
	Value      *decimal.Decimal `json:"value,omitempty" gorm:"type:numeric(6,2)"`
	Date       *time.Time       `json:"date,omitempty" gorm:"type:date"`
	DateJalali *string          `json:"date_jalali,omitempty" gorm:"size:20"`
	Notes      string           `json:"notes,omitempty" gorm:"type:text"`
	ArchivedAt time.Time        `json:"archived_at" gorm:"index;not null"`

	Student *Student `json:"student,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Subject *Subject `json:"subject,omitempty" gorm:"constraint:OnDelete:SET NULL"`
}
