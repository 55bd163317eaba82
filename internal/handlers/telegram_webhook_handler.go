// maisagenda/internal/handlers/telegram_webhook_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"maisagenda/config"
	"maisagenda/internal/botmsg"
	"maisagenda/models"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var telegramWebhook *botmsg.Webhook

// InitTelegramWebhook собирает обработчик бота поверх БД и Telegram-клиента.
// Вызывается из main после инициализации config.
func InitTelegramWebhook() {
	telegramWebhook = botmsg.NewWebhook(&gormProfileStore{}, &telegramSender{})
}

// TelegramWebhookHandler принимает обновления от Telegram. Контракт вебхука
// требует отвечать 200 "ok" при любом исходе, поэтому вся обработка накрыта
// recover, а внутренние ошибки только логируются.
func TelegramWebhookHandler(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Паника при обработке Telegram-вебхука: %v", r)
		}
		c.String(http.StatusOK, "ok")
	}()

	var update tgbotapi.Update
	if err := json.NewDecoder(c.Request.Body).Decode(&update); err != nil {
		log.Printf("Нечитаемое тело Telegram-вебхука: %v", err)
		return
	}

	// Telegram доставляет как минимум один раз; при живом Redis повторные
	// доставки одного update_id отбрасываются
	if update.UpdateID != 0 && config.RDB != nil {
		key := fmt.Sprintf("tg:update:%d", update.UpdateID)
		ok, err := config.RDB.SetNX(config.Ctx, key, 1, 24*time.Hour).Result()
		if err != nil {
			slog.Error("Ошибка дедупликации вебхука в Redis", "error", err)
		} else if !ok {
			slog.Info("Повторная доставка обновления отброшена", "update_id", update.UpdateID)
			return
		}
	}

	if telegramWebhook == nil {
		return
	}
	if err := telegramWebhook.HandleUpdate(update); err != nil {
		log.Printf("Ошибка обработки обновления %d: %v", update.UpdateID, err)
	}
}

// --- Доступ к данным для бота ---

// gormProfileStore реализует botmsg.Store поверх глобальной БД с
// кэшированием профиля по идентификатору чата.
type gormProfileStore struct{}

const profileCacheTTL = 10 * time.Minute

func (s *gormProfileStore) ProfileByChatID(chatID int64) (*models.Profile, error) {
	cacheKey := fmt.Sprintf("profile:chat:%d", chatID)

	if config.RDB != nil {
		cached, err := config.RDB.Get(config.Ctx, cacheKey).Result()
		if err == nil {
			var profile models.Profile
			if json.Unmarshal([]byte(cached), &profile) == nil {
				return &profile, nil
			}
			slog.Warn("Не удалось распаковать кэшированный профиль", "chat_id", chatID)
		} else if err != redis.Nil {
			slog.Error("Ошибка чтения профиля из кэша", "error", err, "chat_id", chatID)
		}
	}

	var profile models.Profile
	if err := config.DB.Where("telegram_chat_id = ?", chatID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if config.RDB != nil {
		if data, err := json.Marshal(profile); err == nil {
			if err := config.RDB.Set(config.Ctx, cacheKey, data, profileCacheTTL).Err(); err != nil {
				slog.Error("Не удалось закэшировать профиль", "error", err, "chat_id", chatID)
			}
		}
	}

	return &profile, nil
}

func (s *gormProfileStore) InsertTransaction(tx *models.Transaction) error {
	return config.DB.Create(tx).Error
}

// --- Отправка ответов ---

// telegramSender реализует botmsg.Sender поверх Telegram Bot API.
// Без настроенного токена отправка превращается в no-op.
type telegramSender struct{}

func (s *telegramSender) SendText(chatID int64, text string) error {
	if config.Bot == nil {
		slog.Warn("Telegram-бот не настроен, ответ не отправлен", "chat_id", chatID)
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	_, err := config.Bot.Send(msg)
	return err
}

func (s *telegramSender) SendButtons(chatID int64, text string, buttons []botmsg.Button) error {
	if config.Bot == nil {
		slog.Warn("Telegram-бот не настроен, ответ не отправлен", "chat_id", chatID)
		return nil
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data),
		))
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "HTML"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err := config.Bot.Send(msg)
	return err
}
