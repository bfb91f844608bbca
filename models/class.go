package models

import "time"

// SchoolClass groups students and subjects. Deleting a class takes its
// students and subjects (and, through them, their records) with it.
type SchoolClass struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:150;uniqueIndex;not null"`

	Students []Student `json:"students,omitempty" gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE"`
	Subjects []Subject `json:"subjects,omitempty" gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
