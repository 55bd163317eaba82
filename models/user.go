package models

import "gorm.io/gorm"

// User - минимальная запись пользователя. Регистрация и вход выполняются
// внешним провайдером аутентификации, мы храним только то, на что ссылаются
// остальные таблицы.
type User struct {
	gorm.Model
	Login    string `json:"login" gorm:"unique;not null"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}
