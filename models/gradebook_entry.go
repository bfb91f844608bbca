package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/shopspring/decimal"

	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/jalali"
)

// EntryKind tags a gradebook entry. The kind alone decides how the value
// is applied: pos adds its magnitude, neg subtracts it, num replaces the
// base grade entirely.
type EntryKind string

const (
	EntryPositive EntryKind = "pos"
	EntryNegative EntryKind = "neg"
	EntryOverride EntryKind = "num"
)

func (k EntryKind) Valid() bool {
	switch k {
	case EntryPositive, EntryNegative, EntryOverride:
		return true
	}
	return false
}

// GradebookEntry is a timestamped incremental record layered on top of a
// student's base grade. SubjectID may be nil for general (non-subject)
// remarks; such entries never affect averages.
type GradebookEntry struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	StudentID uint             `json:"student_id" gorm:"index;not null"`
	SubjectID *uint            `json:"subject_id,omitempty" gorm:"index"`
	Kind      EntryKind        `json:"kind" gorm:"size:8;not null"`
	Value     *decimal.Decimal `json:"value,omitempty" gorm:"type:numeric(6,2)"`
	Date      time.Time        `json:"date" gorm:"type:date;not null"`
	// Solar-Hijri rendering of Date, refreshed on every save so the two
	// never drift apart. Nil only when conversion failed.
	DateJalali *string `json:"date_jalali,omitempty" gorm:"size:20"`
	Notes      string  `json:"notes,omitempty" gorm:"type:text"`

	Subject *Subject `json:"subject,omitempty" gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
}

// Validate enforces the kind-dependent rules: an override must carry a
// value inside the grade bounds, adjustments may omit the value but must
// stay inside the signed bounds when present.
func (e *GradebookEntry) Validate() error {
	if !e.Kind.Valid() {
		return &ValueRequiredError{Field: "kind"}
	}
	switch e.Kind {
	case EntryOverride:
		if e.Value == nil {
			return &ValueRequiredError{Field: "value"}
		}
		if e.Value.LessThan(MinScore) || e.Value.GreaterThan(MaxScore) {
			return &RangeError{Field: "value", Min: MinScore, Max: MaxScore}
		}
	default:
		if e.Value != nil && (e.Value.LessThan(MinEntryValue) || e.Value.GreaterThan(MaxScore)) {
			return &RangeError{Field: "value", Min: MinEntryValue, Max: MaxScore}
		}
	}
	return nil
}

// BeforeSave keeps DateJalali in sync with Date. A failed conversion
// leaves the display string nil rather than blocking the write.
func (e *GradebookEntry) BeforeSave(tx *gorm.DB) error {
	if e.Date.IsZero() {
		e.DateJalali = nil
		return nil
	}
	if s, err := jalali.ToJalali(e.Date); err == nil {
		e.DateJalali = &s
	}
	return nil
}
