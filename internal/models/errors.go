package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound — запись с таким идентификатором не существует.
	ErrNotFound = errors.New("not found")
	// ErrForbidden — запись существует, но принадлежит другому пользователю.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized — токен отсутствует, повреждён или истёк.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials — неверная пара email/пароль. Не различает неизвестный email и неверный пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken — пользователь с таким email уже зарегистрирован.
	ErrEmailTaken = errors.New("user already exists with this email")
)

// ValidationError описывает некорректные входные данные. Message показывается клиенту.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid создаёт ValidationError с форматированным сообщением.
func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation сообщает, является ли err ошибкой валидации.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
