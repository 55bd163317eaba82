// maisagenda/internal/routes/router.go
package routes

import (
	"net/http"

	"maisagenda/internal/handlers"
	"maisagenda/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes инициализирует все маршруты приложения.
func SetupRoutes(r *gin.Engine) {
	// --- Публичные маршруты ---
	// Telegram шлет обновления без нашей авторизации, поэтому вебхук
	// регистрируется до защищенной группы.
	r.POST("/telegram-webhook", handlers.TelegramWebhookHandler)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Защищенная группа маршрутов ---
	// Все маршруты в этой группе требуют валидный JWT внешнего провайдера.
	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	{
		RegisterAPIRoutes(authRequired)
	}
}
