package resource_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/campushub/internal/cache"
	"github.com/magabrotheeeer/campushub/internal/models"
	"github.com/magabrotheeeer/campushub/internal/services/resource"
)

// memStore — хранилище в памяти, повторяющее контракт storage.Collection.
type memStore[R models.Record] struct {
	mu    sync.Mutex
	rows  map[string]R
	clone func(R) R
	gets  int
	clock time.Time
}

func newMemStore[R models.Record](clone func(R) R) *memStore[R] {
	return &memStore[R]{
		rows:  make(map[string]R),
		clone: clone,
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore[R]) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore[R]) Create(_ context.Context, r R) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	meta := r.Meta()
	meta.ID = uuid.NewString()
	meta.CreatedAt = m.tick()
	meta.UpdatedAt = meta.CreatedAt
	m.rows[meta.ID] = m.clone(r)
	return nil
}

func (m *memStore[R]) Get(_ context.Context, id string) (R, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	r, ok := m.rows[id]
	if !ok {
		var zero R
		return zero, models.ErrNotFound
	}
	return m.clone(r), nil
}

func (m *memStore[R]) List(_ context.Context, owner string, _ map[string]string) ([]R, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]R, 0)
	for _, r := range m.rows {
		if r.Meta().Owner == owner {
			out = append(out, m.clone(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Meta().CreatedAt.After(out[j].Meta().CreatedAt) })
	return out, nil
}

func (m *memStore[R]) Update(_ context.Context, r R) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	meta := r.Meta()
	old, ok := m.rows[meta.ID]
	if !ok {
		return models.ErrNotFound
	}
	meta.Owner = old.Meta().Owner
	meta.CreatedAt = old.Meta().CreatedAt
	meta.UpdatedAt = m.tick()
	m.rows[meta.ID] = m.clone(r)
	return nil
}

func (m *memStore[R]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func cloneTask(t *models.Task) *models.Task { c := *t; return &c }
func cloneLink(l *models.Link) *models.Link { c := *l; return &c }
func cloneNote(n *models.Note) *models.Note { c := *n; return &c }
func cloneRequest(s *models.ServiceRequest) *models.ServiceRequest {
	c := *s
	return &c
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func str(s string) *string { return &s }

var (
	alice = models.Identity{UserID: "11111111-1111-1111-1111-111111111111"}
	bob   = models.Identity{UserID: "22222222-2222-2222-2222-222222222222"}
)

func newTaskService(t *testing.T) (*resource.Service[*models.Task, models.TaskInput], *memStore[*models.Task]) {
	t.Helper()
	store := newMemStore(cloneTask)
	return resource.NewService(resource.TaskKind, store, cache.Nop{}, time.Hour, newNoopLogger()), store
}

func TestCreateTask_DefaultsAndOwner(t *testing.T) {
	svc, _ := newTaskService(t)

	task, err := svc.Create(context.Background(), alice, models.TaskInput{
		Title:   str("  HW1 "),
		DueDate: str("2025-01-01"),
	})
	require.NoError(t, err)

	assert.Equal(t, alice.UserID, task.Owner)
	assert.Equal(t, "HW1", task.Title)
	assert.Equal(t, "", task.Course)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, models.TaskPending, task.Status)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), task.DueDate)
	assert.NotEmpty(t, task.ID)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestCreateTask_Validation(t *testing.T) {
	svc, store := newTaskService(t)

	tests := []struct {
		name string
		in   models.TaskInput
		msg  string
	}{
		{"missing title", models.TaskInput{DueDate: str("2025-01-01")}, "Please provide title and due date"},
		{"blank title", models.TaskInput{Title: str("  "), DueDate: str("2025-01-01")}, "Please provide title and due date"},
		{"missing due date", models.TaskInput{Title: str("HW")}, "Please provide title and due date"},
		{"bad due date", models.TaskInput{Title: str("HW"), DueDate: str("tomorrow")}, "Invalid due date: tomorrow"},
		{"bad priority", models.TaskInput{Title: str("HW"), DueDate: str("2025-01-01"), Priority: str("urgent")}, "field priority must be one of: low, medium, high"},
		{"bad status", models.TaskInput{Title: str("HW"), DueDate: str("2025-01-01"), Status: str("done")}, "field status must be one of: pending, in-progress, completed"},
		{"empty priority", models.TaskInput{Title: str("HW"), DueDate: str("2025-01-01"), Priority: str("")}, "field priority must be one of: low, medium, high"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), alice, tt.in)
			require.Error(t, err)
			assert.True(t, models.IsValidation(err))
			assert.Equal(t, tt.msg, err.Error())
		})
	}
	assert.Empty(t, store.rows)
}

func TestCreateTask_RFC3339DueDate(t *testing.T) {
	svc, _ := newTaskService(t)

	task, err := svc.Create(context.Background(), alice, models.TaskInput{
		Title:   str("Exam"),
		DueDate: str("2025-03-10T09:30:00+02:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC), task.DueDate)
}

func TestGet_AccessRules(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, alice, models.TaskInput{Title: str("HW"), DueDate: str("2025-01-01")})
	require.NoError(t, err)

	got, err := svc.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	_, err = svc.Get(ctx, bob, task.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = svc.Get(ctx, alice, uuid.NewString())
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Get(ctx, alice, "not-a-uuid")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestList_OnlyOwnRecords(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	for _, title := range []string{"a1", "a2"} {
		_, err := svc.Create(ctx, alice, models.TaskInput{Title: str(title), DueDate: str("2025-01-01")})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, bob, models.TaskInput{Title: str("b1"), DueDate: str("2025-01-01")})
	require.NoError(t, err)

	list, err := svc.List(ctx, alice, nil)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, task := range list {
		assert.Equal(t, alice.UserID, task.Owner)
	}

	empty, err := svc.List(ctx, models.Identity{UserID: "33333333-3333-3333-3333-333333333333"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

// filterStore запоминает условия, переданные в List.
type filterStore struct {
	*memStore[*models.Task]
	got map[string]string
}

func (f *filterStore) List(ctx context.Context, owner string, filter map[string]string) ([]*models.Task, error) {
	f.got = filter
	return f.memStore.List(ctx, owner, filter)
}

func TestList_Filters(t *testing.T) {
	store := &filterStore{memStore: newMemStore(cloneTask)}
	svc := resource.NewService(resource.TaskKind, store, cache.Nop{}, time.Hour, newNoopLogger())
	ctx := context.Background()

	_, err := svc.List(ctx, alice, map[string]string{"status": "completed", "course": "MATH", "priority": ""})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"status": "completed"}, store.got)

	_, err = svc.List(ctx, alice, map[string]string{"status": "archived"})
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
}

func TestUpdate_PartialAndOwnerImmutable(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, alice, models.TaskInput{
		Title: str("HW"), Course: str("MATH101"), DueDate: str("2025-01-01"), Priority: str("high"),
	})
	require.NoError(t, err)
	created := task.UpdatedAt

	updated, err := svc.Update(ctx, alice, task.ID, models.TaskInput{Status: str(models.TaskCompleted)})
	require.NoError(t, err)
	assert.Equal(t, models.TaskCompleted, updated.Status)
	assert.Equal(t, "HW", updated.Title)
	assert.Equal(t, "MATH101", updated.Course)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Equal(t, alice.UserID, updated.Owner)
	assert.True(t, updated.UpdatedAt.After(created))

	reopened, err := svc.Update(ctx, alice, task.ID, models.TaskInput{Status: str(models.TaskPending)})
	require.NoError(t, err)
	assert.Equal(t, models.TaskPending, reopened.Status)

	got, err := svc.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskPending, got.Status)
	assert.Equal(t, alice.UserID, got.Owner)
}

func TestUpdate_Rejections(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, alice, models.TaskInput{Title: str("HW"), DueDate: str("2025-01-01")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, bob, task.ID, models.TaskInput{Title: str("mine now")})
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = svc.Update(ctx, alice, task.ID, models.TaskInput{Title: str("")})
	assert.True(t, models.IsValidation(err))

	_, err = svc.Update(ctx, alice, task.ID, models.TaskInput{Priority: str("urgent")})
	assert.True(t, models.IsValidation(err))

	_, err = svc.Update(ctx, alice, uuid.NewString(), models.TaskInput{Title: str("x")})
	assert.ErrorIs(t, err, models.ErrNotFound)

	got, err := svc.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "HW", got.Title)
	assert.Equal(t, models.PriorityMedium, got.Priority)
}

func TestDelete(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, alice, models.TaskInput{Title: str("HW"), DueDate: str("2025-01-01")})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, bob, task.ID), models.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, alice, task.ID))

	_, err = svc.Get(ctx, alice, task.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, alice, task.ID), models.ErrNotFound)
}

func TestCanAccess(t *testing.T) {
	task := &models.Task{Owned: models.Owned{Owner: alice.UserID}}

	assert.True(t, resource.CanAccess(alice, task))
	assert.False(t, resource.CanAccess(bob, task))
	assert.False(t, resource.CanAccess(models.Identity{}, &models.Task{}))
}

func TestLinkKind_URLNormalization(t *testing.T) {
	svc := resource.NewService(resource.LinkKind, newMemStore(cloneLink), cache.Nop{}, time.Hour, newNoopLogger())
	ctx := context.Background()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "example.com", want: "https://example.com"},
		{in: "  example.com/docs  ", want: "https://example.com/docs"},
		{in: "http://example.com", want: "http://example.com"},
		{in: "https://example.com/a?b=c", want: "https://example.com/a?b=c"},
		{in: "not a url", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			link, err := svc.Create(ctx, alice, models.LinkInput{Title: str("Docs"), URL: str(tt.in)})
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "Please enter a valid URL", err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, link.URL)
		})
	}

	link, err := svc.Create(ctx, alice, models.LinkInput{Title: str("Go"), URL: str("go.dev")})
	require.NoError(t, err)
	updated, err := svc.Update(ctx, alice, link.ID, models.LinkInput{URL: str("pkg.go.dev")})
	require.NoError(t, err)
	assert.Equal(t, "https://pkg.go.dev", updated.URL)
	assert.Equal(t, "Go", updated.Title)

	_, err = svc.Create(ctx, alice, models.LinkInput{Title: str("Go")})
	assert.Equal(t, "Please provide title and URL", err.Error())
}

func TestNoteKind(t *testing.T) {
	svc := resource.NewService(resource.NoteKind, newMemStore(cloneNote), cache.Nop{}, time.Hour, newNoopLogger())
	ctx := context.Background()

	note, err := svc.Create(ctx, alice, models.NoteInput{Title: str(" Lecture 1 ")})
	require.NoError(t, err)
	assert.Equal(t, "Lecture 1", note.Title)
	assert.Equal(t, "", note.Content)

	updated, err := svc.Update(ctx, alice, note.ID, models.NoteInput{Content: str("  keep spacing ")})
	require.NoError(t, err)
	assert.Equal(t, "  keep spacing ", updated.Content)
	assert.Equal(t, "Lecture 1", updated.Title)

	_, err = svc.Create(ctx, alice, models.NoteInput{Content: str("no title")})
	assert.True(t, models.IsValidation(err))
}

func TestServiceRequestKind(t *testing.T) {
	svc := resource.NewService(resource.ServiceRequestKind, newMemStore(cloneRequest), cache.Nop{}, time.Hour, newNoopLogger())
	ctx := context.Background()

	req, err := svc.Create(ctx, alice, models.ServiceRequestInput{Name: str("Wi-Fi in dorm")})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryOther, req.Category)
	assert.Equal(t, models.RequestPending, req.Status)
	assert.Equal(t, models.PriorityMedium, req.Priority)
	assert.Equal(t, "", req.ContactEmail)

	blankContact, err := svc.Create(ctx, alice, models.ServiceRequestInput{Name: str("Library card"), ContactEmail: str("")})
	require.NoError(t, err)
	assert.Equal(t, "", blankContact.ContactEmail)

	_, err = svc.Create(ctx, alice, models.ServiceRequestInput{Name: str("x"), ContactEmail: str("nope")})
	require.Error(t, err)
	assert.Equal(t, "field contactEmail must be a valid email", err.Error())

	_, err = svc.Create(ctx, alice, models.ServiceRequestInput{Name: str("x"), Category: str("sports")})
	assert.True(t, models.IsValidation(err))

	_, err = svc.Create(ctx, alice, models.ServiceRequestInput{Description: str("no name")})
	assert.Equal(t, "Please provide a service name", err.Error())

	resolved, err := svc.Update(ctx, alice, req.ID, models.ServiceRequestInput{
		Status: str(models.RequestResolved), ContactEmail: str("it@uni.edu"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.RequestResolved, resolved.Status)
	assert.Equal(t, "it@uni.edu", resolved.ContactEmail)
	assert.Equal(t, "Wi-Fi in dorm", resolved.Name)
}

// failingStore возвращает ошибку хранилища на любое чтение.
type failingStore struct {
	*memStore[*models.Task]
}

func (f *failingStore) Get(context.Context, string) (*models.Task, error) {
	return nil, errors.New("connection reset")
}

func TestGet_StoreFailureIsNotNotFound(t *testing.T) {
	svc := resource.NewService(resource.TaskKind, &failingStore{memStore: newMemStore(cloneTask)}, cache.Nop{}, time.Hour, newNoopLogger())

	_, err := svc.Get(context.Background(), alice, uuid.NewString())
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNotFound)
	assert.NotErrorIs(t, err, models.ErrForbidden)
}

func newCachedTaskService(t *testing.T, store resource.Store[*models.Task]) (*resource.Service[*models.Task, models.TaskInput], *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := &cache.Cache{Db: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = c.Close() })
	return resource.NewService(resource.TaskKind, store, c, time.Hour, newNoopLogger()), mr
}

func TestReadThroughCache(t *testing.T) {
	store := newMemStore(cloneTask)
	svc, mr := newCachedTaskService(t, store)
	ctx := context.Background()

	task, err := svc.Create(ctx, alice, models.TaskInput{Title: str("HW"), DueDate: str("2025-01-01")})
	require.NoError(t, err)
	assert.True(t, mr.Exists("task:"+task.ID))

	_, err = svc.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, store.gets)

	_, err = svc.Get(ctx, bob, task.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	// обновление читает строку из хранилища и помечает ключ
	_, err = svc.Update(ctx, alice, task.ID, models.TaskInput{Title: str("HW v2")})
	require.NoError(t, err)
	assert.Equal(t, 1, store.gets)

	got, err := svc.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "HW v2", got.Title)
	assert.Equal(t, 2, store.gets)

	// после истечения метки запись снова кешируется
	mr.FastForward(2 * time.Hour)
	_, err = svc.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	_, err = svc.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, store.gets)

	require.NoError(t, svc.Delete(ctx, alice, task.ID))
	_, err = svc.Get(ctx, alice, task.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// pausingStore останавливает одно чтение после того, как строка уже прочитана.
type pausingStore struct {
	*memStore[*models.Task]
	armed   atomic.Bool
	read    chan struct{}
	release chan struct{}
}

func newPausingStore() *pausingStore {
	return &pausingStore{
		memStore: newMemStore(cloneTask),
		read:     make(chan struct{}),
		release:  make(chan struct{}),
	}
}

func (p *pausingStore) Get(ctx context.Context, id string) (*models.Task, error) {
	r, err := p.memStore.Get(ctx, id)
	if p.armed.CompareAndSwap(true, false) {
		close(p.read)
		<-p.release
	}
	return r, err
}

// startSlowGet запускает Get, который зависает после чтения строки из хранилища.
func startSlowGet(t *testing.T, svc *resource.Service[*models.Task, models.TaskInput], store *pausingStore, id string) chan error {
	t.Helper()
	store.armed.Store(true)
	done := make(chan error, 1)
	go func() {
		_, err := svc.Get(context.Background(), alice, id)
		done <- err
	}()
	<-store.read
	return done
}

func TestCache_DeleteDuringSlowGet(t *testing.T) {
	store := newPausingStore()
	svc, mr := newCachedTaskService(t, store)
	ctx := context.Background()

	task, err := svc.Create(ctx, alice, models.TaskInput{Title: str("HW"), DueDate: str("2025-01-01")})
	require.NoError(t, err)
	mr.Del("task:" + task.ID)

	done := startSlowGet(t, svc, store, task.ID)
	require.NoError(t, svc.Delete(ctx, alice, task.ID))
	close(store.release)
	require.NoError(t, <-done)

	_, err = svc.Get(ctx, alice, task.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, alice, task.ID), models.ErrNotFound)
}

func TestCache_UpdateDuringSlowGet(t *testing.T) {
	store := newPausingStore()
	svc, mr := newCachedTaskService(t, store)
	ctx := context.Background()

	task, err := svc.Create(ctx, alice, models.TaskInput{Title: str("HW"), DueDate: str("2025-01-01")})
	require.NoError(t, err)
	mr.Del("task:" + task.ID)

	done := startSlowGet(t, svc, store, task.ID)
	_, err = svc.Update(ctx, alice, task.ID, models.TaskInput{Status: str(models.TaskCompleted)})
	require.NoError(t, err)
	close(store.release)
	require.NoError(t, <-done)

	got, err := svc.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskCompleted, got.Status)

	// следующее частичное обновление не откатывает статус
	updated, err := svc.Update(ctx, alice, task.ID, models.TaskInput{Course: str("CS101")})
	require.NoError(t, err)
	assert.Equal(t, models.TaskCompleted, updated.Status)
	assert.Equal(t, "CS101", updated.Course)
}

func TestUpdate_IgnoresCachedCopy(t *testing.T) {
	store := newMemStore(cloneTask)
	svc, _ := newCachedTaskService(t, store)
	ctx := context.Background()

	task, err := svc.Create(ctx, alice, models.TaskInput{Title: str("HW"), DueDate: str("2025-01-01")})
	require.NoError(t, err)

	// строку изменили в обход кеша
	store.mu.Lock()
	store.rows[task.ID].Title = "Changed elsewhere"
	store.mu.Unlock()

	updated, err := svc.Update(ctx, alice, task.ID, models.TaskInput{Course: str("CS101")})
	require.NoError(t, err)
	assert.Equal(t, "Changed elsewhere", updated.Title)
	assert.Equal(t, "CS101", updated.Course)
}

func TestCacheFailureFallsBackToStore(t *testing.T) {
	mr := miniredis.RunT(t)
	c := &cache.Cache{Db: redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})}
	t.Cleanup(func() { _ = c.Close() })

	store := newMemStore(cloneTask)
	svc := resource.NewService(resource.TaskKind, store, c, time.Hour, newNoopLogger())
	ctx := context.Background()

	task, err := svc.Create(ctx, alice, models.TaskInput{Title: str("HW"), DueDate: str("2025-01-01")})
	require.NoError(t, err)

	mr.Close()

	got, err := svc.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "HW", got.Title)
	assert.Equal(t, 1, store.gets)
}
