// maisagenda/models/profile.go

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// NamedItem - элемент списка карт или счетов пользователя.
type NamedItem struct {
	Name string `json:"name"`
}

// NamedItemList хранится в Postgres как jsonb, порядок элементов сохраняется.
type NamedItemList []NamedItem

func (l NamedItemList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *NamedItemList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("неподдерживаемый тип для NamedItemList: %T", value)
	}
	return json.Unmarshal(data, l)
}

// Profile - настройки пользователя, на которые опирается Telegram-бот:
// идентификатор чата и упорядоченные списки карт и счетов.
type Profile struct {
	gorm.Model
	UserID         uint          `json:"user_id" gorm:"uniqueIndex;not null"`
	TelegramChatID int64         `json:"telegram_chat_id" gorm:"index"`
	UserCards      NamedItemList `json:"user_cards" gorm:"type:jsonb"`
	UserAccounts   NamedItemList `json:"user_accounts" gorm:"type:jsonb"`
}
