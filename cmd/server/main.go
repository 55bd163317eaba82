// maisagenda/cmd/server/main.go
package main

import (
	"log/slog"
	"os"

	"maisagenda/config"
	"maisagenda/internal/handlers"
	"maisagenda/internal/routes"
	"maisagenda/models"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadJwtKey()
	config.ConnectDB()
	config.ConnectRedis()
	config.ConnectTelegram()

	if err := config.DB.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.CalendarEvent{},
		&models.Transaction{},
		&models.Task{},
		&models.ShoppingItem{},
	); err != nil {
		slog.Error("Ошибка миграции схемы БД", "error", err)
		os.Exit(1)
	}

	handlers.InitTelegramWebhook()

	r := gin.Default()
	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	slog.Info("Сервер запускается", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("Сервер остановился с ошибкой", "error", err)
		os.Exit(1)
	}
}
