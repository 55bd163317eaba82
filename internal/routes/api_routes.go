// maisagenda/internal/routes/api_routes.go
package routes

import (
	"maisagenda/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes регистрирует все маршруты API, требующие аутентификации.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	// Группа для всех API-запросов с префиксом /api
	apiGroup := api.Group("/api")
	{
		// --- КАЛЕНДАРЬ ---
		events := apiGroup.Group("/events")
		{
			events.GET("", handlers.ListEventsHandler)
			events.POST("", handlers.CreateEventHandler)
			events.PUT("/:id", handlers.UpdateEventHandler)
			events.DELETE("/:id", handlers.DeleteEventHandler)
		}

		// --- ПЛАНИРОВАНИЕ ---
		// WebSocket-сессия экрана планирования: пока она открыта, работает
		// движок напоминаний этого пользователя.
		planning := apiGroup.Group("/planning")
		{
			planning.GET("/ws", handlers.PlanningWSEndpoint)
		}

		// --- ФИНАНСЫ ---
		transactions := apiGroup.Group("/transactions")
		{
			transactions.GET("", handlers.ListTransactionsHandler)
			transactions.POST("", handlers.CreateTransactionHandler)
			transactions.PUT("/:id", handlers.UpdateTransactionHandler)
			transactions.DELETE("/:id", handlers.DeleteTransactionHandler)
			transactions.GET("/summary", handlers.GetTransactionSummaryHandler)
			transactions.GET("/export", handlers.ExportTransactionsHandler)
		}

		// --- ЗАДАЧИ ---
		tasks := apiGroup.Group("/tasks")
		{
			tasks.GET("", handlers.ListTasksHandler)
			tasks.POST("", handlers.CreateTaskHandler)
			tasks.PUT("/:id", handlers.UpdateTaskHandler)
			tasks.POST("/:id/toggle", handlers.ToggleTaskHandler)
			tasks.DELETE("/:id", handlers.DeleteTaskHandler)
		}

		// --- ПОКУПКИ ---
		shopping := apiGroup.Group("/shopping")
		{
			shopping.GET("", handlers.ListShoppingItemsHandler)
			shopping.POST("", handlers.CreateShoppingItemHandler)
			shopping.PUT("/:id", handlers.UpdateShoppingItemHandler)
			shopping.DELETE("/:id", handlers.DeleteShoppingItemHandler)
		}

		// --- ПРОФИЛЬ ---
		profile := apiGroup.Group("/profile")
		{
			profile.GET("", handlers.GetProfileHandler)
			profile.PUT("", handlers.UpdateProfileHandler)
		}
	}
}
