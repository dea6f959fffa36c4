// Package create реализует HTTP-обработчик для создания записи пользователя.
//
// Handler принимает JSON с полями записи, вызывает бизнес-логику создания и
// возвращает созданную запись со статусом 201. Владельцем всегда становится
// вызывающий: поля user в теле запроса входная структура не содержит.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/campushub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/campushub/internal/http/response"
	"github.com/magabrotheeeer/campushub/internal/lib/sl"
	"github.com/magabrotheeeer/campushub/internal/models"
)

// Handler управляет HTTP-запросами на создание новых записей.
type Handler[R models.Record, I any] struct {
	log     *slog.Logger  // Логгер для записи информации и ошибок
	service Service[R, I] // Сервис бизнес-логики для создания записей
}

// Service описывает интерфейс бизнес-логики создания записи.
type Service[R models.Record, I any] interface {
	Kind() string
	Create(ctx context.Context, id models.Identity, in I) (R, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New[R models.Record, I any](log *slog.Logger, service Service[R, I]) *Handler[R, I] {
	return &Handler[R, I]{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Создать запись
// @Description Создает запись для текущего пользователя.
// @Tags Resources
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param kind path string true "Вид ресурса" Enums(tasks, notes, links, services)
// @Param request body object true "Поля записи; схема зависит от kind (tasks: models.TaskInput, notes: models.NoteInput, links: models.LinkInput, services: models.ServiceRequestInput)"
// @Success 201 {object} response.Response "Созданная запись"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /{kind} [post]
func (h *Handler[R, I]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resource.create"
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

	var in I
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	res, err := h.service.Create(r.Context(), id, in)
	if err != nil {
		response.Fail(w, r, log, err, subj)
		return
	}

	log.Info("record created", slog.String("id", res.Meta().ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OK(res))
}
