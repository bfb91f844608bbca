package database

import (
	"time"

	"gorm.io/gorm"

	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/jalali"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/models"
)

// BackfillJalali fills date_jalali on rows where it is null, re-deriving
// it from the stored Gregorian date. Rows whose conversion fails (and
// history entries without a date) are left untouched. Returns the number
// of rows updated.
func BackfillJalali(db *gorm.DB) (int64, error) {
	var updated int64

	fill := func(model any, id uint, date time.Time) error {
		s, err := jalali.ToJalali(date)
		if err != nil {
			return nil
		}
		res := db.Model(model).Where("id = ?", id).UpdateColumn("date_jalali", s)
		if res.Error != nil {
			return res.Error
		}
		updated += res.RowsAffected
		return nil
	}

	var atts []models.Attendance
	if err := db.Where("date_jalali IS NULL").Find(&atts).Error; err != nil {
		return updated, err
	}
	for _, a := range atts {
		if err := fill(&models.Attendance{}, a.ID, a.Date); err != nil {
			return updated, err
		}
	}

	var entries []models.GradebookEntry
	if err := db.Where("date_jalali IS NULL").Find(&entries).Error; err != nil {
		return updated, err
	}
	for _, e := range entries {
		if err := fill(&models.GradebookEntry{}, e.ID, e.Date); err != nil {
			return updated, err
		}
	}

	var attHist []models.AttendanceHistory
	if err := db.Where("date_jalali IS NULL").Find(&attHist).Error; err != nil {
		return updated, err
	}
	for _, h := range attHist {
		if err := fill(&models.AttendanceHistory{}, h.ID, h.Date); err != nil {
			return updated, err
		}
	}

	var gbHist []models.GradebookEntryHistory
	if err := db.Where("date_jalali IS NULL").Find(&gbHist).Error; err != nil {
		return updated, err
	}
	for _, h := range gbHist {
		if h.Date == nil {
			continue
		}
		if err := fill(&models.GradebookEntryHistory{}, h.ID, *h.Date); err != nil {
			return updated, err
		}
	}

	return updated, nil
}
