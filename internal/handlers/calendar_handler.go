// maisagenda/internal/handlers/calendar_handler.go

package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"maisagenda/config"
	"maisagenda/models"

	"github.com/gin-gonic/gin"
)

// EventRequest - структура для получения данных при создании/обновлении события.
type EventRequest struct {
	Title           string     `json:"title" binding:"required"`
	StartTime       time.Time  `json:"start_time" binding:"required"`
	EndTime         *time.Time `json:"end_time"`
	AllDay          bool       `json:"all_day"`
	Location        string     `json:"location"`
	ReminderMinutes int        `json:"reminder_minutes"`
	Repeat          string     `json:"repeat"`
	Type            string     `json:"type"`
	Status          string     `json:"status"`
}

// ListEventsHandler возвращает события текущего пользователя, опционально
// ограниченные диапазоном from/to.
func ListEventsHandler(c *gin.Context) {
	currentUserID := c.GetUint("user_id")
	if currentUserID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	query := config.DB.Where("user_id = ?", currentUserID).Order("start_time ASC")
	if from := c.Query("from"); from != "" {
		query = query.Where("start_time >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		query = query.Where("start_time <= ?", to)
	}

	var events []models.CalendarEvent
	if err := query.Find(&events).Error; err != nil {
		log.Printf("Error fetching events: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, events)
}

// CreateEventHandler создает новое событие.
func CreateEventHandler(c *gin.Context) {
	currentUserID := c.GetUint("user_id")

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.ReminderMinutes < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reminder_minutes must be non-negative"})
		return
	}

	event := models.CalendarEvent{
		UserID:          currentUserID,
		Title:           req.Title,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		AllDay:          req.AllDay,
		Location:        req.Location,
		ReminderMinutes: req.ReminderMinutes,
		Repeat:          defaultString(req.Repeat, models.RepeatNone),
		Type:            defaultString(req.Type, models.EventTypePersonal),
		Status:          defaultString(req.Status, models.EventStatusBusy),
	}
	if err := config.DB.Create(&event).Error; err != nil {
		log.Printf("Error creating event: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	// Открытые сессии планирования пересчитывают напоминания сразу
	PlanningHub.NotifyUser(currentUserID)

	c.JSON(http.StatusCreated, event)
}

// UpdateEventHandler обновляет существующее событие.
func UpdateEventHandler(c *gin.Context) {
	currentUserID := c.GetUint("user_id")
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var event models.CalendarEvent
	if err := config.DB.First(&event, eventID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}
	if event.UserID != currentUserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the owner of this event"})
		return
	}

	updates := map[string]interface{}{
		"title":            req.Title,
		"start_time":       req.StartTime,
		"end_time":         req.EndTime,
		"all_day":          req.AllDay,
		"location":         req.Location,
		"reminder_minutes": req.ReminderMinutes,
		"repeat":           defaultString(req.Repeat, event.Repeat),
		"type":             defaultString(req.Type, event.Type),
		"status":           defaultString(req.Status, event.Status),
	}
	if err := config.DB.Model(&event).Updates(updates).Error; err != nil {
		log.Printf("Error updating event %d: %v", eventID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}

	PlanningHub.NotifyUser(currentUserID)

	c.JSON(http.StatusOK, event)
}

// DeleteEventHandler удаляет событие текущего пользователя.
func DeleteEventHandler(c *gin.Context) {
	currentUserID := c.GetUint("user_id")
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	result := config.DB.Where("user_id = ?", currentUserID).Delete(&models.CalendarEvent{}, eventID)
	if result.Error != nil {
		log.Printf("Error deleting event %d: %v", eventID, result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	PlanningHub.NotifyUser(currentUserID)

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
