// Package scoring derives effective per-subject scores and averages from
// base grades, gradebook entries and attendance. Nothing here is cached:
// every call recomputes from the current rows.
package scoring

import (
	"errors"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/models"
)

// AbsencePenalty is subtracted from the raw average once per absence.
var AbsencePenalty = decimal.New(2, -1) // 0.2

// EffectiveScore computes the final score of one student in one subject.
// ok is false when the subject has neither a base grade nor an override
// entry; such subjects contribute nothing to the average.
func EffectiveScore(db *gorm.DB, studentID, subjectID uint) (decimal.Decimal, bool, error) {
	var effective decimal.Decimal
	defined := false

	var grade models.Grade
	err := db.Where("student_id = ? AND subject_id = ?", studentID, subjectID).First(&grade).Error
	switch {
	case err == nil:
		effective = grade.Score
		defined = true
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no base grade; an override entry may still define the score
	default:
		return decimal.Decimal{}, false, err
	}

	var entries []models.GradebookEntry
	if err := db.Where("student_id = ? AND subject_id = ?", studentID, subjectID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return decimal.Decimal{}, false, err
	}

	// The most recent override replaces the base grade entirely.
	for _, e := range entries {
		if e.Kind == models.EntryOverride && e.Value != nil {
			effective = *e.Value
			defined = true
		}
	}
	if !defined {
		return decimal.Decimal{}, false, nil
	}

	// Adjustments apply by magnitude only; the kind decides the direction.
	for _, e := range entries {
		if e.Value == nil {
			continue
		}
		switch e.Kind {
		case models.EntryPositive:
			effective = effective.Add(e.Value.Abs())
		case models.EntryNegative:
			effective = effective.Sub(e.Value.Abs())
		}
	}
	return effective, true, nil
}

// StudentAverage computes the student's overall average: the mean of all
// defined effective scores across the class's subjects, minus 0.2 per
// recorded absence, clamped to [0,20] and rounded to two decimals.
// ok is false when no subject has a defined score.
func StudentAverage(db *gorm.DB, studentID uint) (decimal.Decimal, bool, error) {
	var student models.Student
	if err := db.First(&student, studentID).Error; err != nil {
		return decimal.Decimal{}, false, err
	}

	var subjects []models.Subject
	if err := db.Where("class_id = ?", student.ClassID).Order("id ASC").Find(&subjects).Error; err != nil {
		return decimal.Decimal{}, false, err
	}

	sum := decimal.Zero
	count := 0
	for _, subj := range subjects {
		score, ok, err := EffectiveScore(db, studentID, subj.ID)
		if err != nil {
			return decimal.Decimal{}, false, err
		}
		if ok {
			sum = sum.Add(score)
			count++
		}
	}
	if count == 0 {
		return decimal.Decimal{}, false, nil
	}
	avg := sum.Div(decimal.NewFromInt(int64(count)))

	// A failed absence count falls back to zero rather than failing the
	// whole average; the error is logged so storage trouble stays visible.
	var absences int64
	if err := db.Model(&models.Attendance{}).
		Where("student_id = ? AND present = ?", studentID, false).
		Count(&absences).Error; err != nil {
		log.Printf("scoring: absence count failed for student %d: %v", studentID, err)
		absences = 0
	}

	adjusted := avg.Sub(AbsencePenalty.Mul(decimal.NewFromInt(absences)))
	return clamp(adjusted).Round(2), true, nil
}

// ClassAverage is the plain mean of every raw base grade in the class —
// not of the per-student adjusted averages. ok is false for a class with
// no grades at all.
func ClassAverage(db *gorm.DB, classID uint) (decimal.Decimal, bool, error) {
	var grades []models.Grade
	if err := db.Joins("JOIN subjects ON subjects.id = grades.subject_id").
		Where("subjects.class_id = ?", classID).
		Find(&grades).Error; err != nil {
		return decimal.Decimal{}, false, err
	}
	if len(grades) == 0 {
		return decimal.Decimal{}, false, nil
	}
	sum := decimal.Zero
	for _, g := range grades {
		sum = sum.Add(g.Score)
	}
	return sum.Div(decimal.NewFromInt(int64(len(grades)))).Round(2), true, nil
}

func clamp(d decimal.Decimal) decimal.Decimal {
	if d.LessThan(models.MinScore) {
		return models.MinScore
	}
	if d.GreaterThan(models.MaxScore) {
		return models.MaxScore
	}
	return d
}
