// Package update реализует HTTP-обработчик частичного обновления записи.
//
// Меняются только поля, присутствующие в теле запроса. Владелец записи не меняется.
package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/campushub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/campushub/internal/http/response"
	"github.com/magabrotheeeer/campushub/internal/lib/sl"
	"github.com/magabrotheeeer/campushub/internal/models"
)

// Handler обрабатывает запросы на обновление записи.
type Handler[R models.Record, I any] struct {
	log     *slog.Logger
	service Service[R, I]
}

// Service описывает интерфейс бизнес-логики обновления записи.
type Service[R models.Record, I any] interface {
	Kind() string
	Update(ctx context.Context, id models.Identity, recordID string, in I) (R, error)
}

// New создает новый Handler.
func New[R models.Record, I any](log *slog.Logger, service Service[R, I]) *Handler[R, I] {
	return &Handler[R, I]{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Обновить запись
// @Description Частично обновляет запись текущего пользователя.
// @Tags Resources
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param kind path string true "Вид ресурса" Enums(tasks, notes, links, services)
// @Param id path string true "ID записи"
// @Param request body object true "Изменяемые поля; схема зависит от kind (tasks: models.TaskInput, notes: models.NoteInput, links: models.LinkInput, services: models.ServiceRequestInput)"
// @Success 200 {object} response.Response "Обновлённая запись"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Запись принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /{kind}/{id} [put]
func (h *Handler[R, I]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resource.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("kind", h.service.Kind()),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	subj := response.Subject{Name: h.service.Kind(), Verb: "update"}

	id, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.Fail(w, r, log, models.ErrUnauthorized, subj)
		return
	}

	var in I
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	res, err := h.service.Update(r.Context(), id, chi.URLParam(r, "id"), in)
	if err != nil {
		response.Fail(w, r, log, err, subj)
		return
	}

	log.Info("record updated", slog.String("id", res.Meta().ID))
	render.JSON(w, r, response.OK(res))
}
