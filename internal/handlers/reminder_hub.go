// maisagenda/internal/handlers/reminder_hub.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"maisagenda/config"
	"maisagenda/internal/reminder"
	"maisagenda/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var planningUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Для разработки разрешаем все источники
	},
}

// PlanningHub - единственный экземпляр хаба сессий планирования.
var PlanningHub = NewReminderHub()

// --- Структуры ---

// reminderFrame - кадр протокола между экраном планирования и сервером.
type reminderFrame struct {
	Type    string            `json:"type"`
	EventID uint              `json:"event_id,omitempty"`
	ToastID string            `json:"toast_id,omitempty"`
	Active  []reminder.Active `json:"active,omitempty"`
	Toast   *reminder.Toast   `json:"toast,omitempty"`
}

// reminderClient - одна открытая сессия планирования. Клиент владеет своим
// движком напоминаний: сессия открылась - движок запустился, закрылась -
// движок остановлен вместе со всеми таймерами.
type reminderClient struct {
	hub    *ReminderHub
	conn   *websocket.Conn
	send   chan []byte
	userID uint
	engine *reminder.Engine
}

// ReminderHub хранит открытые сессии, чтобы обработчики календаря могли
// толкнуть немедленную перепроверку после сохранения или удаления события.
type ReminderHub struct {
	mu      sync.Mutex
	clients map[*reminderClient]struct{}
}

func NewReminderHub() *ReminderHub {
	return &ReminderHub{clients: make(map[*reminderClient]struct{})}
}

func (h *ReminderHub) register(c *reminderClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	slog.Info("Сессия планирования открыта", "userID", c.userID)
}

func (h *ReminderHub) unregister(c *reminderClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	slog.Info("Сессия планирования закрыта", "userID", c.userID)
}

// NotifyUser запускает немедленную перепроверку напоминаний во всех открытых
// сессиях пользователя, не дожидаясь планового тика.
func (h *ReminderHub) NotifyUser(userID uint) {
	h.mu.Lock()
	var engines []*reminder.Engine
	for c := range h.clients {
		if c.userID == userID {
			engines = append(engines, c.engine)
		}
	}
	h.mu.Unlock()

	for _, e := range engines {
		e.Refresh()
	}
}

// --- Клиент как приёмник событий движка ---

func (c *reminderClient) ActiveChanged(active []reminder.Active) {
	c.enqueue(reminderFrame{Type: "active", Active: active})
}

func (c *reminderClient) ToastShown(toast reminder.Toast) {
	t := toast
	c.enqueue(reminderFrame{Type: "toast", Toast: &t})
}

func (c *reminderClient) ToastExpired(toastID string) {
	c.enqueue(reminderFrame{Type: "toast_expired", ToastID: toastID})
}

func (c *reminderClient) enqueue(frame reminderFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		slog.Error("Не удалось сериализовать кадр напоминаний", "error", err)
		return
	}
	defer func() {
		// Канал мог закрыться при разрегистрации - кадр просто теряется
		recover()
	}()
	select {
	case c.send <- data:
	default:
	}
}

// --- Чтение/запись сокета ---

func (c *reminderClient) readPump() {
	defer func() {
		c.engine.Stop()
		c.hub.unregister(c)
		c.conn.Close()
	}()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("Неожиданное закрытие сокета планирования", "error", err)
			}
			break
		}

		var frame reminderFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			slog.Error("Нечитаемый кадр от клиента планирования", "error", err)
			continue
		}

		switch frame.Type {
		case "dismiss":
			c.engine.Dismiss(frame.EventID)
		case "snooze":
			c.engine.Snooze(frame.EventID, time.Now())
		case "refresh":
			c.engine.Refresh()
		}
	}
}

func (c *reminderClient) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			slog.Error("Ошибка записи в сокет планирования", "error", err)
			return
		}
	}
}

// PlanningWSEndpoint поднимает websocket-сессию экрана планирования.
func PlanningWSEndpoint(c *gin.Context) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	userID, _ := userIDVal.(uint)

	conn, err := planningUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("Не удалось поднять websocket планирования", "error", err)
		return
	}

	client := &reminderClient{
		hub:    PlanningHub,
		conn:   conn,
		send:   make(chan []byte, 16),
		userID: userID,
	}
	client.engine = reminder.NewEngine(eventsProvider(userID), client)

	PlanningHub.register(client)
	go client.writePump()
	client.engine.Start()
	go client.readPump()
}

// eventsProvider отдаёт события пользователя с включённым напоминанием
// в порядке начала - этот порядок определяет порядок активного списка.
func eventsProvider(userID uint) reminder.Provider {
	return func() []models.CalendarEvent {
		var events []models.CalendarEvent
		if err := config.DB.
			Where("user_id = ? AND reminder_minutes > 0", userID).
			Order("start_time ASC").
			Find(&events).Error; err != nil {
			slog.Error("Не удалось загрузить события для напоминаний", "error", err, "userID", userID)
			return nil
		}
		return events
	}
}
