// maisagenda/internal/handlers/profile_handler.go
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"maisagenda/config"
	"maisagenda/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProfileRequest - структура для обновления профиля. Списки карт и счетов
// заменяются целиком, их порядок важен для кнопок бота.
type ProfileRequest struct {
	TelegramChatID int64                `json:"telegram_chat_id"`
	UserCards      models.NamedItemList `json:"user_cards"`
	UserAccounts   models.NamedItemList `json:"user_accounts"`
}

// GetProfileHandler возвращает данные текущего авторизованного пользователя.
func GetProfileHandler(c *gin.Context) {
	currentUserID := c.GetUint("user_id")
	if currentUserID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, currentUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User details not found in DB"})
		return
	}

	// Профиля может еще не быть - отдаем пустые списки
	var profile models.Profile
	if err := config.DB.Where("user_id = ?", currentUserID).First(&profile).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
			return
		}
		profile = models.Profile{UserID: currentUserID}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":               currentUserID,
		"login":            user.Login,
		"fullName":         user.FullName,
		"email":            user.Email,
		"telegram_chat_id": profile.TelegramChatID,
		"user_cards":       profile.UserCards,
		"user_accounts":    profile.UserAccounts,
	})
}

// UpdateProfileHandler обновляет настройки бота: чат, карты и счета.
func UpdateProfileHandler(c *gin.Context) {
	currentUserID := c.GetUint("user_id")
	if currentUserID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var profile models.Profile
	err := config.DB.Where("user_id = ?", currentUserID).First(&profile).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = models.Profile{UserID: currentUserID}
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	oldChatID := profile.TelegramChatID
	profile.TelegramChatID = req.TelegramChatID
	profile.UserCards = req.UserCards
	profile.UserAccounts = req.UserAccounts

	if err := config.DB.Save(&profile).Error; err != nil {
		slog.Error("Не удалось сохранить профиль", "error", err, "user_id", currentUserID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		return
	}

	// Кэш профиля по чату устарел - сбрасываем старый и новый ключи
	if config.RDB != nil {
		for _, chatID := range []int64{oldChatID, profile.TelegramChatID} {
			if chatID != 0 {
				config.RDB.Del(config.Ctx, fmt.Sprintf("profile:chat:%d", chatID))
			}
		}
	}

	c.JSON(http.StatusOK, profile)
}
