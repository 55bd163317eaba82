// maisagenda/models/transaction.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Типы и статусы транзакций.
const (
	TxTypeExpense  = "expense"
	TxTypeIncome   = "income"
	TxTypeTransfer = "transfer"
	TxTypeCard     = "card"

	TxStatusPaid    = "paid"
	TxStatusPending = "pending"
)

// Transaction представляет одну финансовую операцию пользователя.
type Transaction struct {
	gorm.Model
	UserID   uint      `json:"user_id" gorm:"index;not null"`
	Title    string    `json:"title" gorm:"not null"`
	Amount   float64   `json:"amount" gorm:"type:numeric(12,2);not null"`
	Type     string    `json:"type" gorm:"not null"` // expense|income|transfer|card
	Category string    `json:"category"`
	Date     time.Time `json:"date"`
	Status   string    `json:"status" gorm:"default:paid"` // paid|pending
}
