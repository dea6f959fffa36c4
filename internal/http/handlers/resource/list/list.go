// Package list реализует HTTP-обработчик для получения списка ресурсов пользователя.
//
// Handler обобщён по виду ресурса: один и тот же код обслуживает задачи, заметки,
// ссылки и заявки. Параметры запроса status, priority и category передаются
// сервису как фильтры; какие из них применимы, решает сервис.
package list

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

// Handler обрабатывает запросы на получение списка записей вызывающего.
type Handler[R models.Record] struct {
	log     *slog.Logger
	service Service[R]
}

// Service описывает интерфейс бизнес-логики получения списка.
type Service[R models.Record] interface {
	Kind() string
	List(ctx context.Context, id models.Identity, filter map[string]string) ([]R, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New[R models.Record](log *slog.Logger, service Service[R]) *Handler[R] {
	return &Handler[R]{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список ресурсов
// @Description Возвращает записи текущего пользователя. Задачи отсортированы по дедлайну, остальное по дате создания (новые сначала).
// @Tags Resources
// @Produce  json
// @Security BearerAuth
// @Param kind path string true "Вид ресурса" Enums(tasks, notes, links, services)
// @Param status query string false "Фильтр по статусу (tasks, services)"
// @Param priority query string false "Фильтр по приоритету (tasks, services)"
// @Param category query string false "Фильтр по категории (services)"
// @Success 200 {object} response.Response "Список записей и их число в count"
// @Failure 400 {object} response.ErrorResponse "Недопустимое значение фильтра"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /{kind} [get]
func (h *Handler[R]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resource.list"
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

	filter := make(map[string]string)
	for key, vals := range r.URL.Query() {
		if len(vals) > 0 {
			filter[key] = vals[0]
		}
	}

	items, err := h.service.List(r.Context(), id, filter)
	if err != nil {
		response.Fail(w, r, log, err, subj)
		return
	}

	log.Debug("listed records", slog.Int("count", len(items)))
	render.JSON(w, r, response.List(items, len(items)))
}
