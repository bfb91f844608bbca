package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Score bounds shared by grades and gradebook entries.
var (
	MinScore      = decimal.Zero
	MaxScore      = decimal.NewFromInt(20)
	MinEntryValue = decimal.NewFromInt(-20)
)

// Grade is the single official base score for one student+subject pair.
// Incremental changes go through GradebookEntry instead of editing this row.
type Grade struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	StudentID uint            `json:"student_id" gorm:"uniqueIndex:uniq_grade_student_subject;not null"`
	SubjectID uint            `json:"subject_id" gorm:"uniqueIndex:uniq_grade_student_subject;not null"`
	Score     decimal.Decimal `json:"score" gorm:"type:numeric(5,2);not null"`

	Subject *Subject `json:"subject,omitempty" gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidateScore checks the 0..20 bound (inclusive).
func ValidateScore(s decimal.Decimal) error {
	if s.LessThan(MinScore) || s.GreaterThan(MaxScore) {
		return &RangeError{Field: "score", Min: MinScore, Max: MaxScore}
	}
	return nil
}
