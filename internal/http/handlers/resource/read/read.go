// Package read реализует HTTP-обработчик для получения одной записи по ID.
//
// Отсутствующая запись и нераспознанный ID дают 404, чужая запись 403.
package read

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

// Handler обрабатывает запросы на получение записи по уникальному идентификатору.
type Handler[R models.Record] struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service[R]   // Сервис бизнес-логики для получения записи по ID
}

// Service описывает интерфейс бизнес-логики чтения записи.
type Service[R models.Record] interface {
	Kind() string
	Get(ctx context.Context, id models.Identity, recordID string) (R, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New[R models.Record](log *slog.Logger, service Service[R]) *Handler[R] {
	return &Handler[R]{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить запись
// @Tags Resources
// @Produce  json
// @Security BearerAuth
// @Param kind path string true "Вид ресурса" Enums(tasks, notes, links, services)
// @Param id path string true "ID записи"
// @Success 200 {object} response.Response "Запись"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Запись принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /{kind}/{id} [get]
func (h *Handler[R]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resource.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("kind", h.service.Kind()),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	subj := response.Subject{Name: h.service.Kind(), Verb: "access"}

	id, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.Fail(w, r, log, models.ErrUnauthorized, subj)
		return
	}

	res, err := h.service.Get(r.Context(), id, chi.URLParam(r, "id"))
	if err != nil {
		response.Fail(w, r, log, err, subj)
		return
	}

	render.JSON(w, r, response.OK(res))
}
