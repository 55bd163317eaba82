package models

import "gorm.io/gorm"

// ShoppingItem - позиция в списке покупок. Списки различаются по полю ListName.
type ShoppingItem struct {
	gorm.Model
	UserID   uint   `json:"user_id" gorm:"index;not null"`
	ListName string `json:"list_name" gorm:"index;default:Geral"`
	Name     string `json:"name" gorm:"not null"`
	Quantity int    `json:"quantity" gorm:"default:1"`
	Done     bool   `json:"done"`
}
