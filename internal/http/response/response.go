// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Все ответы API, кроме health,
// имеют вид {success, data?, message?, count?}.
package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/campushub/internal/lib/sl"
	"github.com/magabrotheeeer/campushub/internal/models"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Success — признак успешного выполнения.
// Поле Data — данные ответа (при успехе).
// Поле Message — текст ошибки или подтверждения.
// Поле Count — число элементов в Data для списков.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Task not found"`
}

// ServerError — сообщение для непредвиденных ошибок. Подробности остаются в логах.
const ServerError = "Server error"

// OK возвращает успешный Response с переданными данными.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// List возвращает успешный Response со списком и его длиной.
func List(data any, count int) Response {
	return Response{Success: true, Data: data, Count: &count}
}

// Message возвращает успешный Response с текстом подтверждения.
func Message(msg string) Response {
	return Response{Success: true, Message: msg}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{Message: msg}
}

// Subject описывает, над чем выполнялась операция, для текста ошибок доступа:
// "Task not found", "Not authorized to update this task".
type Subject struct {
	Name string // имя вида ресурса в единственном числе, например "task"
	Verb string // access, update или delete
}

// Status возвращает HTTP-статус для ошибки сервиса.
func Status(err error) int {
	switch {
	case models.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized), errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrEmailTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Fail записывает ответ с ошибкой err. Текст непредвиденных ошибок клиенту не отдаётся.
func Fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, subj Subject) {
	code := Status(err)

	var msg string
	switch code {
	case http.StatusBadRequest:
		msg = err.Error()
	case http.StatusUnauthorized:
		if errors.Is(err, models.ErrInvalidCredentials) {
			msg = "Invalid credentials"
		} else {
			msg = "Not authorized, token failed"
		}
	case http.StatusForbidden:
		msg = fmt.Sprintf("Not authorized to %s this %s", subj.Verb, subj.Name)
	case http.StatusNotFound:
		msg = Capitalize(subj.Name) + " not found"
	case http.StatusConflict:
		msg = "User already exists with this email"
	default:
		msg = ServerError
	}

	if code == http.StatusInternalServerError {
		log.Error("request failed", sl.Err(err))
	} else {
		log.Info("request rejected", slog.Int("status", code), slog.String("reason", msg))
	}

	render.Status(r, code)
	render.JSON(w, r, Error(msg))
}

// Capitalize переводит первую букву в верхний регистр.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
