// maisagenda/internal/handlers/task_handler.go

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

// TaskRequest - структура для создания/обновления задачи.
type TaskRequest struct {
	Title    string     `json:"title" binding:"required"`
	Priority string     `json:"priority"`
	DueDate  *time.Time `json:"due_date"`
}

// ListTasksHandler возвращает задачи пользователя: сначала невыполненные.
func ListTasksHandler(c *gin.Context) {
	currentUserID := c.GetUint("user_id")
	if currentUserID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var tasks []models.Task
	if err := config.DB.
		Where("user_id = ?", currentUserID).
		Order("done ASC, created_at DESC").
		Find(&tasks).Error; err != nil {
		log.Printf("Error fetching tasks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// CreateTaskHandler создает задачу.
func CreateTaskHandler(c *gin.Context) {
	currentUserID := c.GetUint("user_id")

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	task := models.Task{
		UserID:   currentUserID,
		Title:    req.Title,
		Priority: defaultString(req.Priority, "normal"),
		DueDate:  req.DueDate,
	}
	if err := config.DB.Create(&task).Error; err != nil {
		log.Printf("Error creating task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, task)
}

// UpdateTaskHandler обновляет задачу пользователя.
func UpdateTaskHandler(c *gin.Context) {
	currentUserID := c.GetUint("user_id")
	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var task models.Task
	if err := config.DB.First(&task, taskID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if task.UserID != currentUserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the owner of this task"})
		return
	}

	updates := map[string]interface{}{
		"title":    req.Title,
		"priority": defaultString(req.Priority, task.Priority),
		"due_date": req.DueDate,
	}
	if err := config.DB.Model(&task).Updates(updates).Error; err != nil {
		log.Printf("Error updating task %d: %v", taskID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, task)
}

// ToggleTaskHandler переключает признак выполнения задачи.
func ToggleTaskHandler(c *gin.Context) {
	currentUserID := c.GetUint("user_id")
	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var task models.Task
	if err := config.DB.First(&task, taskID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if task.UserID != currentUserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the owner of this task"})
		return
	}

	if err := config.DB.Model(&task).Update("done", !task.Done).Error; err != nil {
		log.Printf("Error toggling task %d: %v", taskID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle task"})
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTaskHandler удаляет задачу пользователя.
func DeleteTaskHandler(c *gin.Context) {
	currentUserID := c.GetUint("user_id")
	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	result := config.DB.Where("user_id = ?", currentUserID).Delete(&models.Task{}, taskID)
	if result.Error != nil {
		log.Printf("Error deleting task %d: %v", taskID, result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
