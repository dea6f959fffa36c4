// Package resource реализует доступ к ресурсам, принадлежащим пользователю.
//
// Один обобщённый Service обслуживает все виды ресурсов (задачи, заметки, ссылки,
// заявки). Различия между видами описываются значением Kind: как собрать запись
// из входных данных и как применить к ней частичное обновление. Проверка
// владельца одна для всех видов и выполняется в CanAccess.
package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/campushub/internal/lib/sl"
	"github.com/magabrotheeeer/campushub/internal/lib/validation"
	"github.com/magabrotheeeer/campushub/internal/models"
)

// Store определяет методы для работы с записями одного вида в хранилище.
type Store[R models.Record] interface {
	// Create сохраняет запись и заполняет её ID и метки времени.
	Create(ctx context.Context, r R) error
	// Get возвращает запись по ID или models.ErrNotFound.
	Get(ctx context.Context, id string) (R, error)
	// List возвращает записи владельца с учётом условий равенства.
	List(ctx context.Context, owner string, filter map[string]string) ([]R, error)
	// Update перезаписывает поля данных записи.
	Update(ctx context.Context, r R) error
	// Delete удаляет запись; отсутствующая запись даёт models.ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни, перезаписывая прежнее.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Add сохраняет значение, только если ключа ещё нет.
	Add(ctx context.Context, key string, value any, expiration time.Duration) (bool, error)
}

// entry — значение записи в кеше. Gone ставится при изменении или удалении записи:
// пока метка не истекла, прочитанная из хранилища копия в кеш не попадает,
// поэтому запоздавшее чтение не может вернуть туда старую версию.
type entry[R models.Record] struct {
	Record R    `json:"record,omitempty"`
	Gone   bool `json:"gone,omitempty"`
}

// Kind описывает вид ресурса.
type Kind[R models.Record, I any] struct {
	// Name — имя вида в единственном числе, например "task". Используется в ключах кеша и логах.
	Name string
	// Filters — допустимые фильтры списка и их значения.
	Filters map[string][]string
	// Build собирает новую запись владельца owner: проверяет обязательные поля,
	// подставляет значения по умолчанию и нормализует ввод.
	Build func(owner string, in I) (R, error)
	// Apply применяет к записи только присутствующие поля in.
	Apply func(r R, in I) error
}

// Service реализует CRUD над ресурсами одного вида с проверкой владельца.
type Service[R models.Record, I any] struct {
	kind     Kind[R, I]
	store    Store[R]
	cache    Cache
	cacheTTL time.Duration
	validate *validator.Validate
	log      *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService[R models.Record, I any](kind Kind[R, I], store Store[R], cache Cache, cacheTTL time.Duration, log *slog.Logger) *Service[R, I] {
	return &Service[R, I]{
		kind:     kind,
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		validate: validation.New(),
		log:      log.With(slog.String("kind", kind.Name)),
	}
}

// Kind возвращает имя вида ресурса.
func (s *Service[R, I]) Kind() string {
	return s.kind.Name
}

// CanAccess — единственное правило авторизации: запись доступна только владельцу.
func CanAccess(id models.Identity, r models.Record) bool {
	return id.UserID != "" && r.Meta().Owner == id.UserID
}

// List возвращает записи вызывающего. Неизвестные ключи filter игнорируются,
// недопустимое значение известного фильтра даёт ошибку валидации.
func (s *Service[R, I]) List(ctx context.Context, id models.Identity, filter map[string]string) ([]R, error) {
	const op = "resource.List"

	where := make(map[string]string)
	for key, allowed := range s.kind.Filters {
		val, ok := filter[key]
		if !ok || val == "" {
			continue
		}
		if !slices.Contains(allowed, val) {
			return nil, models.Invalid("Invalid %s filter: %s", key, val)
		}
		where[key] = val
	}

	list, err := s.store.List(ctx, id.UserID, where)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Get возвращает запись по ID. Нераспознанный или отсутствующий ID даёт
// models.ErrNotFound, чужая запись — models.ErrForbidden.
func (s *Service[R, I]) Get(ctx context.Context, id models.Identity, recordID string) (R, error) {
	return s.owned(ctx, id, recordID, true)
}

// owned загружает запись и проверяет владельца. При cached == false кеш не читается.
func (s *Service[R, I]) owned(ctx context.Context, id models.Identity, recordID string, cached bool) (R, error) {
	r, err := s.load(ctx, recordID, cached)
	if err != nil {
		return r, err
	}
	if !CanAccess(id, r) {
		var zero R
		return zero, models.ErrForbidden
	}
	return r, nil
}

// Create проверяет входные данные и сохраняет новую запись вызывающего.
func (s *Service[R, I]) Create(ctx context.Context, id models.Identity, in I) (R, error) {
	const op = "resource.Create"
	var zero R

	if err := s.check(in); err != nil {
		return zero, err
	}
	r, err := s.kind.Build(id.UserID, in)
	if err != nil {
		return zero, err
	}
	r.Meta().Owner = id.UserID

	if err := s.store.Create(ctx, r); err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created record", slog.String("id", r.Meta().ID))

	s.remember(ctx, r)
	return r, nil
}

// Update применяет частичное обновление к записи вызывающего. Владелец не меняется.
func (s *Service[R, I]) Update(ctx context.Context, id models.Identity, recordID string, in I) (R, error) {
	const op = "resource.Update"
	var zero R

	if err := s.check(in); err != nil {
		return zero, err
	}
	// Частичное обновление применяется к актуальной строке, а не к копии из кеша.
	r, err := s.owned(ctx, id, recordID, false)
	if err != nil {
		return zero, err
	}

	owner := r.Meta().Owner
	if err := s.kind.Apply(r, in); err != nil {
		return zero, err
	}
	r.Meta().Owner = owner

	if err := s.store.Update(ctx, r); err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	s.forget(ctx, recordID)
	return r, nil
}

// Delete безвозвратно удаляет запись вызывающего.
func (s *Service[R, I]) Delete(ctx context.Context, id models.Identity, recordID string) error {
	const op = "resource.Delete"

	if _, err := s.Get(ctx, id, recordID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, recordID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.forget(ctx, recordID)
	s.log.Info("deleted record", slog.String("id", recordID))
	return nil
}

// load читает запись из кеша, а при промахе или cached == false из хранилища.
func (s *Service[R, I]) load(ctx context.Context, recordID string, cached bool) (R, error) {
	const op = "resource.load"
	var zero R

	if _, err := uuid.Parse(recordID); err != nil {
		return zero, models.ErrNotFound
	}

	if cached {
		key := s.key(recordID)
		var e entry[R]
		found, err := s.cache.Get(ctx, key, &e)
		if err != nil {
			s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
		}
		if found && err == nil && !e.Gone {
			return e.Record, nil
		}
	}

	r, err := s.store.Get(ctx, recordID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return zero, models.ErrNotFound
		}
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	if cached {
		s.remember(ctx, r)
	}
	return r, nil
}

func (s *Service[R, I]) check(in I) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return models.Invalid("%s", validation.Message(verrs))
	}
	return models.Invalid("invalid request")
}

// remember кладёт запись в кеш, если ключ свободен. Метка Gone ключ занимает.
func (s *Service[R, I]) remember(ctx context.Context, r R) {
	key := s.key(r.Meta().ID)
	if _, err := s.cache.Add(ctx, key, entry[R]{Record: r}, s.cacheTTL); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
	}
}

// forget заменяет закешированную запись меткой Gone на время жизни кеша.
func (s *Service[R, I]) forget(ctx context.Context, recordID string) {
	key := s.key(recordID)
	if err := s.cache.Set(ctx, key, entry[R]{Gone: true}, s.cacheTTL); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(err))
	}
}

func (s *Service[R, I]) key(recordID string) string {
	return s.kind.Name + ":" + recordID
}
