// Package health реализует проверку живости сервиса.
package health

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// Response — тело ответа health.
type Response struct {
	Status string `json:"status" example:"ok"`
	Time   string `json:"time" example:"2025-01-01T00:00:00.000Z"`
}

// Handler отвечает на запросы проверки живости.
type Handler struct {
	log *slog.Logger
	now func() time.Time
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
		now: time.Now,
	}
}

// ServeHTTP godoc
// @Summary Проверка живости
// @Tags Health
// @Produce  json
// @Success 200 {object} Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.log.Debug("health check", slog.String("remote", r.RemoteAddr))
	render.JSON(w, r, Response{
		Status: "ok",
		Time:   h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}
