// maisagenda/internal/botmsg/payload.go

package botmsg

import (
	"fmt"
	"strings"
	"time"
)

// Полезная нагрузка кнопки - кортеж из ровно семи полей, разделённых "|".
// Между вопросом и нажатием сервер состояния не хранит: всё необходимое
// для завершения транзакции едет туда и обратно внутри callback_data.
const (
	payloadSeparator  = "|"
	payloadFieldCount = 7

	// Формат даты совместим с isoDate фронтенда
	payloadDateLayout = "2006-01-02T15:04:05.000Z07:00"
)

// CallbackPayload - разобранный кортеж callback_data.
// Amount хранится строкой, чтобы кортеж восстанавливался байт в байт.
type CallbackPayload struct {
	Action      string
	Amount      string
	Type        string
	Status      string
	Date        time.Time
	Description string
	Item        string
}

// Encode собирает кортеж в callback_data кнопки.
func (p CallbackPayload) Encode() string {
	fields := []string{
		p.Action,
		p.Amount,
		p.Type,
		p.Status,
		p.Date.UTC().Format(payloadDateLayout),
		p.Description,
		p.Item,
	}
	return strings.Join(fields, payloadSeparator)
}

// DecodePayload разбирает callback_data обратно в кортеж. Любое количество
// полей, кроме семи, считается повреждённой нагрузкой.
func DecodePayload(data string) (*CallbackPayload, error) {
	parts := strings.Split(data, payloadSeparator)
	if len(parts) != payloadFieldCount {
		return nil, fmt.Errorf("ожидается %d полей, получено %d", payloadFieldCount, len(parts))
	}

	date, err := time.Parse(time.RFC3339, parts[4])
	if err != nil {
		return nil, fmt.Errorf("неверная дата в нагрузке: %w", err)
	}

	return &CallbackPayload{
		Action:      parts[0],
		Amount:      parts[1],
		Type:        parts[2],
		Status:      parts[3],
		Date:        date,
		Description: parts[5],
		Item:        parts[6],
	}, nil
}
