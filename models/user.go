package models

import "time"

// User is a staff account (teachers and admins log in here; students use
// their own credential on the Student model).
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:60;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Name         string    `json:"name" gorm:"size:120"`
	Role         string    `json:"role" gorm:"size:20;not null"` // "staff" | "admin"
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
