// maisagenda/internal/botmsg/webhook.go

package botmsg

import (
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"maisagenda/models"
)

const helpMessage = "👋 Olá! Eu registro suas transações.\n\n" +
	"Envie algo como:\n" +
	"<code>Almoço 35</code>\n" +
	"<code>Uber 20 cartao</code>\n" +
	"<code>Salário 5000 recebi</code>\n\n" +
	"Palavras-chave: cartao, pix, recebi, transferencia, pendente, agendar, dia N"

// Store - минимальный контракт доступа к данным, который нужен вебхуку.
type Store interface {
	// ProfileByChatID возвращает (nil, nil), если профиль не найден.
	ProfileByChatID(chatID int64) (*models.Profile, error)
	InsertTransaction(tx *models.Transaction) error
}

// Button - одна inline-кнопка уточнения. Data несёт полный кортеж
// состояния, сервер между вопросом и ответом ничего не хранит.
type Button struct {
	Label string
	Data  string
}

// Sender отправляет ответы в чат. Реализация поверх Telegram Bot API.
type Sender interface {
	SendText(chatID int64, text string) error
	SendButtons(chatID int64, text string, buttons []Button) error
}

// Webhook обрабатывает одно входящее обновление Telegram от начала до конца.
// Обработчик полностью stateless: незавершённое уточнение живёт только в
// callback_data кнопок.
type Webhook struct {
	store  Store
	sender Sender
}

// NewWebhook собирает обработчик вебхука.
func NewWebhook(store Store, sender Sender) *Webhook {
	return &Webhook{store: store, sender: sender}
}

// HandleUpdate разбирает одно обновление. Неизвестные отправители, сообщения
// без суммы и повреждённые нагрузки молча игнорируются - транспортный
// ответ всегда одинаковый, этим занимается HTTP-обработчик выше.
func (w *Webhook) HandleUpdate(update tgbotapi.Update) error {
	if update.CallbackQuery != nil {
		return w.handleCallback(update.CallbackQuery)
	}
	if update.Message != nil && update.Message.Text != "" {
		return w.handleText(update.Message)
	}
	return nil
}

// handleCallback завершает уточнение: восстанавливает кортеж из нагрузки
// кнопки и записывает транзакцию.
func (w *Webhook) handleCallback(cb *tgbotapi.CallbackQuery) error {
	if cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}
	chatID := cb.Message.Chat.ID

	payload, err := DecodePayload(cb.Data)
	if err != nil {
		// Повреждённая нагрузка - молчаливый no-op
		log.Printf("Повреждённая нагрузка кнопки от чата %d: %v", chatID, err)
		return nil
	}

	profile, err := w.store.ProfileByChatID(chatID)
	if err != nil {
		return err
	}
	if profile == nil {
		return nil
	}

	amount, err := decimal.NewFromString(payload.Amount)
	if err != nil {
		log.Printf("Неразборчивая сумма в нагрузке кнопки: %q", payload.Amount)
		return nil
	}

	txType := payload.Type
	if payload.Action == models.TxTypeCard {
		txType = models.TxTypeCard
	}

	title := BuildTitle(payload.Action, payload.Description, payload.Item)
	tx := &models.Transaction{
		UserID:   profile.UserID,
		Title:    title,
		Amount:   amount.InexactFloat64(),
		Type:     txType,
		Category: CategoryFor(payload.Action),
		Date:     payload.Date,
		Status:   payload.Status,
	}
	if err := w.store.InsertTransaction(tx); err != nil {
		return err
	}

	return w.sender.SendText(chatID, confirmation(title, amount))
}

// handleText обрабатывает обычное текстовое сообщение.
func (w *Webhook) handleText(msg *tgbotapi.Message) error {
	if msg.Chat == nil {
		return nil
	}
	chatID := msg.Chat.ID
	text := msg.Text

	lower := strings.ToLower(text)
	if text == "/start" || strings.Contains(lower, "ajuda") {
		return w.sender.SendText(chatID, helpMessage)
	}

	// Незнакомые отправители не получают никакого ответа - намеренно,
	// чтобы не выдавать существование бота посторонним
	profile, err := w.store.ProfileByChatID(chatID)
	if err != nil {
		return err
	}
	if profile == nil {
		return nil
	}

	now := time.Now()
	if msg.Date > 0 {
		now = msg.Time()
	}
	parsed, ok := ParseMessage(text, now)
	if !ok {
		return nil
	}

	decision := Decide(parsed, profile)
	switch decision.Kind {
	case DecidePromptCards:
		return w.sender.SendButtons(chatID, "💳 Em qual cartão foi a compra?", decision.Options)
	case DecidePromptAccounts:
		return w.sender.SendButtons(chatID, "🏦 Qual conta?", decision.Options)
	default:
		entry := decision.Entry
		tx := &models.Transaction{
			UserID:   profile.UserID,
			Title:    entry.Title,
			Amount:   entry.Amount.InexactFloat64(),
			Type:     entry.Type,
			Category: entry.Category,
			Date:     entry.Date,
			Status:   entry.Status,
		}
		if err := w.store.InsertTransaction(tx); err != nil {
			return err
		}
		return w.sender.SendText(chatID, confirmation(entry.Title, entry.Amount))
	}
}

func confirmation(title string, amount decimal.Decimal) string {
	return fmt.Sprintf("✅ Transação registrada!\n<b>%s</b>\nValor: R$ %s", title, amount.StringFixed(2))
}
