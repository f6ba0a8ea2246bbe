// Package models содержит доменные структуры фитнес-клуба: пользователей,
// клиентов, тренеров, расписания, тренировки, посещения и журнал рассылок,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Username     string    // Имя пользователя (уникальное)
	Email        string    // Электронная почта
	PasswordHash string    // Хэш пароля пользователя
	Role         string    // Роль пользователя: staff или member
	CreatedAt    time.Time // Дата создания учётной записи
}

// Роли пользователей системы.
const (
	RoleStaff  = "staff"
	RoleMember = "member"
)
