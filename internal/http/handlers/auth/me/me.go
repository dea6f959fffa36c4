// Package me реализует HTTP-обработчик, возвращающий профиль текущего пользователя.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/campushub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/campushub/internal/http/response"
	"github.com/magabrotheeeer/campushub/internal/models"
)

// Handler обрабатывает запрос профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает получение профиля по личности вызывающего.
type Service interface {
	Me(ctx context.Context, id models.Identity) (*models.User, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	subj := response.Subject{Name: "user", Verb: "access"}

	id, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.Fail(w, r, log, models.ErrUnauthorized, subj)
		return
	}

	user, err := h.service.Me(r.Context(), id)
	if err != nil {
		response.Fail(w, r, log, err, subj)
		return
	}

	render.JSON(w, r, response.OK(map[string]any{
		"user": user.Public(),
	}))
}
