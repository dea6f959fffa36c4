package campushub

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/campushub/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/campushub/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/campushub/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/campushub/internal/http/handlers/health"
	"github.com/magabrotheeeer/campushub/internal/http/handlers/resource/create"
	"github.com/magabrotheeeer/campushub/internal/http/handlers/resource/list"
	"github.com/magabrotheeeer/campushub/internal/http/handlers/resource/read"
	"github.com/magabrotheeeer/campushub/internal/http/handlers/resource/remove"
	"github.com/magabrotheeeer/campushub/internal/http/handlers/resource/update"
	"github.com/magabrotheeeer/campushub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/campushub/internal/http/response"
	"github.com/magabrotheeeer/campushub/internal/models"
	"github.com/magabrotheeeer/campushub/internal/services/auth"
	"github.com/magabrotheeeer/campushub/internal/services/resource"
)

// Services — бизнес-логика, которую обслуживают маршруты.
type Services struct {
	Auth     *auth.Service
	Tasks    *resource.Service[*models.Task, models.TaskInput]
	Notes    *resource.Service[*models.Note, models.NoteInput]
	Links    *resource.Service[*models.Link, models.LinkInput]
	Requests *resource.Service[*models.ServiceRequest, models.ServiceRequestInput]
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, clientURL string, metrics *middlewarectx.Metrics, svc Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{clientURL},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		metrics.Middleware,
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusMethodNotAllowed)
		render.JSON(w, r, response.Error("Method not allowed"))
	})

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger).ServeHTTP)
		r.Post("/auth/register", register.New(logger, svc.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, svc.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svc.Auth, logger))
			r.Get("/auth/me", me.New(logger, svc.Auth).ServeHTTP)
			mountResource(r, "/tasks", logger, svc.Tasks)
			mountResource(r, "/notes", logger, svc.Notes)
			mountResource(r, "/links", logger, svc.Links)
			mountResource(r, "/services", logger, svc.Requests)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

// mountResource вешает на path пять CRUD-маршрутов одного вида ресурса.
func mountResource[R models.Record, I any](r chi.Router, path string, logger *slog.Logger, svc *resource.Service[R, I]) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", list.New[R](logger, svc).ServeHTTP)
		r.Post("/", create.New[R, I](logger, svc).ServeHTTP)
		r.Get("/{id}", read.New[R](logger, svc).ServeHTTP)
		r.Put("/{id}", update.New[R, I](logger, svc).ServeHTTP)
		r.Delete("/{id}", remove.New(logger, svc).ServeHTTP)
	})
}
