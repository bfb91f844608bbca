package models

import "time"

type Subject struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	ClassID     uint   `json:"class_id" gorm:"uniqueIndex:uniq_subject_class_name;not null"`
	Name        string `json:"name" gorm:"size:150;uniqueIndex:uniq_subject_class_name;not null"`
	TeacherName string `json:"teacher_name,omitempty" gorm:"size:200"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
