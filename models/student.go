package models

import "time"

type Student struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	ClassID    uint   `json:"class_id" gorm:"uniqueIndex:uniq_student_class_roll;not null"`
	FullName   string `json:"full_name" gorm:"size:200;not null"`
	RollNumber uint   `json:"roll_number" gorm:"uniqueIndex:uniq_student_class_roll;not null"`
	NationalID string `json:"national_id" gorm:"size:20;index"`
	// Login credential for the student portal; compared as an opaque value.
	Password string `json:"-" gorm:"size:128"`

	Phone1 string `json:"phone1,omitempty" gorm:"size:20"`
	Phone2 string `json:"phone2,omitempty" gorm:"size:20"`
	Phone3 string `json:"phone3,omitempty" gorm:"size:20"`
	Email1 string `json:"email1,omitempty" gorm:"size:254"`
	Email2 string `json:"email2,omitempty" gorm:"size:254"`

	Grades           []Grade          `json:"grades,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	GradebookEntries []GradebookEntry `json:"gradebook_entries,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Attendances      []Attendance     `json:"attendances,omitempty" gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
