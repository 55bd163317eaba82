// maisagenda/models/calendar.go

package models

import (
	"time"

	"gorm.io/gorm"
)

// Допустимые значения перечислений события календаря.
const (
	RepeatNone    = "none"
	RepeatDaily   = "daily"
	RepeatWeekly  = "weekly"
	RepeatMonthly = "monthly"

	EventTypeWork     = "work"
	EventTypePersonal = "personal"
	EventTypeHealth   = "health"
	EventTypeLeisure  = "leisure"

	EventStatusBusy = "busy"
	EventStatusFree = "free"
)

// CalendarEvent представляет событие в календаре пользователя.
// ReminderMinutes > 0 - единственное условие, при котором событие попадает
// в проверку напоминаний. Repeat хранится как есть и не разворачивается
// в отдельные экземпляры.
type CalendarEvent struct {
	gorm.Model
	UserID          uint       `json:"user_id" gorm:"index;not null"`
	Title           string     `json:"title" gorm:"not null"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	AllDay          bool       `json:"all_day"`
	Location        string     `json:"location,omitempty"`
	ReminderMinutes int        `json:"reminder_minutes"` // 0 = без напоминания
	Repeat          string     `json:"repeat" gorm:"default:none"`
	Type            string     `json:"type" gorm:"default:personal"`
	Status          string     `json:"status" gorm:"default:busy"` // busy|free, чисто информационное
}
