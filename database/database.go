package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/config"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	// TranslateError turns driver unique-violations into gorm.ErrDuplicatedKey
	// so handlers can answer 409 without sniffing pq error codes.
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	if err := Migrate(DB); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}
}

// Migrate is separate from Connect so tests can run it against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.SchoolClass{},
		&models.Subject{},
		&models.Student{},
		&models.Grade{},
		&models.GradebookEntry{},
		&models.Attendance{},
		&models.AttendanceHistory{},
		&models.GradebookEntryHistory{},
		&models.User{},
	)
}
