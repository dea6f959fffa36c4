// Package campushub собирает HTTP-приложение: хранилище, кеш, сервисы и маршруты.
package campushub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/campushub/internal/cache"
	"github.com/magabrotheeeer/campushub/internal/config"
	"github.com/magabrotheeeer/campushub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/campushub/internal/lib/jwt"
	"github.com/magabrotheeeer/campushub/internal/lib/sl"
	"github.com/magabrotheeeer/campushub/internal/migrations"
	"github.com/magabrotheeeer/campushub/internal/services/auth"
	"github.com/magabrotheeeer/campushub/internal/services/resource"
	"github.com/magabrotheeeer/campushub/internal/storage"
)

// shutdownTimeout — сколько ждать завершения активных запросов при остановке.
const shutdownTimeout = 15 * time.Second

// App — собранное приложение.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
}

// New подключается к базе и Redis, накатывает миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err = storage.CheckDatabaseReady(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	var (
		recordCache resource.Cache = cache.Nop{}
		redisCache  *cache.Cache
	)
	if cfg.AddressRedis != "" {
		redisCache, err = cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		recordCache = redisCache
	} else {
		logger.Warn("redis address is not set, record cache disabled")
	}

	maker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	ttl := cfg.CacheTTL
	services := Services{
		Auth:     auth.NewService(db, maker),
		Tasks:    resource.NewService(resource.TaskKind, storage.NewCollection(db, storage.TaskSchema), recordCache, ttl, logger),
		Notes:    resource.NewService(resource.NoteKind, storage.NewCollection(db, storage.NoteSchema), recordCache, ttl, logger),
		Links:    resource.NewService(resource.LinkKind, storage.NewCollection(db, storage.LinkSchema), recordCache, ttl, logger),
		Requests: resource.NewService(resource.ServiceRequestKind, storage.NewCollection(db, storage.ServiceRequestSchema), recordCache, ttl, logger),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.ClientURL, middlewarectx.NewMetrics(prometheus.DefaultRegisterer), services)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  redisCache,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до ошибки или отмены ctx.
// После отмены сервер мягко останавливается, затем закрываются соединения с базой и Redis.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
}
