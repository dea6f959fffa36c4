// Package models содержит доменные структуры органайзера: пользователя,
// принадлежащие ему ресурсы (задачи, заметки, ссылки, заявки) и входные
// данные запросов на их создание и изменение.
package models

import "time"

// RoleStudent — роль, назначаемая при регистрации.
const RoleStudent = "student"

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           string    // Уникальный идентификатор пользователя
	FullName     string    // Отображаемое имя
	Email        string    // Электронная почта, уникальна, сравнивается как есть
	PasswordHash string    // bcrypt-хэш пароля, наружу не отдаётся
	University   string    // Название учебного заведения
	Role         string    // Роль пользователя, по умолчанию student
	CreatedAt    time.Time // Дата регистрации
	UpdatedAt    time.Time // Дата последнего изменения профиля
}

// PublicUser — представление пользователя для ответов API, без хэша пароля.
type PublicUser struct {
	ID         string `json:"id"`
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	University string `json:"university"`
	Role       string `json:"role"`
}

// Public возвращает безопасное для отдачи клиенту представление пользователя.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      u.Email,
		University: u.University,
		Role:       u.Role,
	}
}

// Identity — аутентифицированный вызывающий, полученный из проверенного токена.
// Это единственное, что middleware передаёт дальше по цепочке.
type Identity struct {
	UserID string
}
