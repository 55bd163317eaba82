// maisagenda/config/telegram.go
package config

import (
	"log/slog"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var Bot *tgbotapi.BotAPI

// ConnectTelegram инициализирует клиент Telegram Bot API. Токен не обязателен:
// без него вебхук принимает обновления, но исходящие сообщения не отправляются.
func ConnectTelegram() {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		slog.Warn("Переменная окружения TELEGRAM_BOT_TOKEN не установлена, бот не будет отвечать.")
		return
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		slog.Error("Не удалось инициализировать Telegram-бота", "error", err)
		return
	}

	Bot = bot
	slog.Info("Telegram-бот инициализирован", "username", bot.Self.UserName)
}
