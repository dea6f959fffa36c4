// Package remove реализует HTTP-обработчик для удаления записи по ID.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/campushub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/campushub/internal/http/response"
	"github.com/magabrotheeeer/campushub/internal/models"
)

// Handler обрабатывает запросы на удаление записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления записи.
type Service interface {
	Kind() string
	Delete(ctx context.Context, id models.Identity, recordID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить запись
// @Tags Resources
// @Produce  json
// @Security BearerAuth
// @Param kind path string true "Вид ресурса" Enums(tasks, notes, links, services)
// @Param id path string true "ID записи"
// @Success 200 {object} response.Response "Запись удалена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Запись принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /{kind}/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resource.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("kind", h.service.Kind()),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	subj := response.Subject{Name: h.service.Kind(), Verb: "delete"}

	id, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.Fail(w, r, log, models.ErrUnauthorized, subj)
		return
	}

	recordID := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id, recordID); err != nil {
		response.Fail(w, r, log, err, subj)
		return
	}

	log.Info("record deleted", slog.String("id", recordID))
	render.JSON(w, r, response.Message(response.Capitalize(h.service.Kind())+" deleted successfully"))
}
