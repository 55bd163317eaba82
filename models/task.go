package models

import (
	"time"

	"gorm.io/gorm"
)

// Task - задача из списка дел пользователя.
type Task struct {
	gorm.Model
	UserID   uint       `json:"user_id" gorm:"index;not null"`
	Title    string     `json:"title" gorm:"not null"`
	Done     bool       `json:"done"`
	Priority string     `json:"priority" gorm:"default:normal"` // low|normal|high
	DueDate  *time.Time `json:"due_date,omitempty"`
}
