package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/api/ws"
	"todo/internal/domain"
	r "todo/internal/redis"
	"todo/internal/repository"
	"todo/internal/testutil"
)

type recordedEvent struct {
	Type string
	Data interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(eventType string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Type: eventType, Data: data})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var fixedNow = time.Date(2024, time.March, 5, 7, 8, 9, 0, time.Local)

func setupTodoService(t *testing.T, policy DeletePolicy) (*TodoService, *repository.TodoRepository, *recordingPublisher) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repo := repository.NewTodoRepository(db.DB())
	events := &recordingPublisher{}

	service := NewTodoService(repo, policy, nil, events)
	service.now = func() time.Time { return fixedNow }
	return service, repo, events
}

func TestTodoService_Create(t *testing.T) {
	service, _, events := setupTodoService(t, SoftDelete)
	ctx := context.Background()

	t.Run("trims title and assigns server fields", func(t *testing.T) {
		todo, err := service.Create(ctx, CreateTodoInput{Title: "  Buy milk  "})
		require.NoError(t, err)
		assert.Equal(t, int64(1), todo.ID)
		assert.Equal(t, "Buy milk", todo.Title)
		assert.False(t, todo.Completed)
		assert.Equal(t, "2024-03-05 07:08:09", todo.CreatedAt)
		assert.Nil(t, todo.DeletedAt)
		assert.Equal(t, []string{ws.EventTodoCreated}, events.types())
	})

	for _, title := range []string{"", "   ", "\t\n"} {
		t.Run("rejects blank title "+title, func(t *testing.T) {
			before, err := service.List(ctx)
			require.NoError(t, err)

			_, err = service.Create(ctx, CreateTodoInput{Title: title})
			assert.ErrorIs(t, err, ErrInvalidTitle)

			after, err := service.List(ctx)
			require.NoError(t, err)
			assert.Len(t, after, len(before))
		})
	}
}

func TestTodoService_List(t *testing.T) {
	service, _, _ := setupTodoService(t, SoftDelete)
	ctx := context.Background()

	todos, err := service.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)

	for _, title := range []string{"first", "second", "third"} {
		_, err := service.Create(ctx, CreateTodoInput{Title: title})
		require.NoError(t, err)
	}

	todos, err = service.List(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 3)
	assert.Equal(t, "third", todos[0].Title)
	assert.Equal(t, "first", todos[2].Title)
}

func TestTodoService_Get(t *testing.T) {
	service, _, _ := setupTodoService(t, SoftDelete)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateTodoInput{Title: "Buy milk"})
	require.NoError(t, err)

	found, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)

	_, err = service.Get(ctx, 4242)
	assert.ErrorIs(t, err, repository.ErrTodoNotFound)
}

func TestTodoService_Update(t *testing.T) {
	service, _, events := setupTodoService(t, SoftDelete)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateTodoInput{Title: "Buy milk"})
	require.NoError(t, err)

	t.Run("toggle is idempotent per step", func(t *testing.T) {
		for _, want := range []bool{true, false, true, true} {
			updated, err := service.Update(ctx, created.ID, UpdateTodoInput{Completed: want})
			require.NoError(t, err)
			assert.Equal(t, want, updated.Completed)
			assert.Equal(t, "Buy milk", updated.Title)
			assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		}
		assert.Contains(t, events.types(), ws.EventTodoUpdated)
	})

	t.Run("title is trimmed", func(t *testing.T) {
		title := "  Buy oat milk "
		updated, err := service.Update(ctx, created.ID, UpdateTodoInput{Completed: false, Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Buy oat milk", updated.Title)
	})

	t.Run("blank title rejected", func(t *testing.T) {
		title := "   "
		_, err := service.Update(ctx, created.ID, UpdateTodoInput{Completed: true, Title: &title})
		assert.ErrorIs(t, err, ErrInvalidTitle)

		found, err := service.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Buy oat milk", found.Title)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := service.Update(ctx, 4242, UpdateTodoInput{Completed: true})
		assert.ErrorIs(t, err, repository.ErrTodoNotFound)
	})
}

func TestTodoService_SoftDelete(t *testing.T) {
	service, _, events := setupTodoService(t, SoftDelete)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateTodoInput{Title: "Buy milk"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, created.ID))
	assert.Contains(t, events.types(), ws.EventTodoDeleted)

	todos, err := service.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)

	found, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found.DeletedAt)
	assert.Equal(t, "2024-03-05 07:08:09", *found.DeletedAt)

	assert.ErrorIs(t, service.Delete(ctx, created.ID), repository.ErrTodoNotFound)

	_, err = service.Update(ctx, created.ID, UpdateTodoInput{Completed: true})
	assert.ErrorIs(t, err, repository.ErrTodoNotFound)
}

func TestTodoService_HardDelete(t *testing.T) {
	service, _, _ := setupTodoService(t, HardDelete)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateTodoInput{Title: "Buy milk"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, created.ID))

	todos, err := service.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)

	_, err = service.Get(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrTodoNotFound)

	assert.ErrorIs(t, service.Delete(ctx, created.ID), repository.ErrTodoNotFound)
}

func TestTodoService_Scenario(t *testing.T) {
	service, _, _ := setupTodoService(t, SoftDelete)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateTodoInput{Title: "Buy milk"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Buy milk", created.Title)
	assert.False(t, created.Completed)
	assert.NotEmpty(t, created.CreatedAt)

	updated, err := service.Update(ctx, 1, UpdateTodoInput{Completed: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.ID)
	assert.Equal(t, "Buy milk", updated.Title)
	assert.True(t, updated.Completed)

	require.NoError(t, service.Delete(ctx, 1))

	todos, err := service.List(ctx)
	require.NoError(t, err)
	for _, todo := range todos {
		assert.NotEqual(t, int64(1), todo.ID)
	}
}

func TestTodoService_Cache(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTodoRepository(db.DB())
	s := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	defer rdb.Close()

	service := NewTodoService(repo, SoftDelete, r.TodoCache(rdb, time.Minute), nil)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateTodoInput{Title: "Buy milk"})
	require.NoError(t, err)

	_, err = service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, s.Exists("todo:1"), "fetch populates the cache")

	t.Run("update refreshes cached record", func(t *testing.T) {
		_, err := service.Update(ctx, created.ID, UpdateTodoInput{Completed: true})
		require.NoError(t, err)

		found, err := service.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, found.Completed)
	})

	t.Run("delete invalidates cached record", func(t *testing.T) {
		require.NoError(t, service.Delete(ctx, created.ID))
		assert.False(t, s.Exists("todo:1"))

		found, err := service.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, found.Deleted())
	})

	t.Run("cache outage falls back to storage", func(t *testing.T) {
		s.Close()

		found, err := service.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})
}

func TestTodoService_StorageFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	service := NewTodoService(repository.NewTodoRepository(db.DB()), SoftDelete, nil, nil)
	require.NoError(t, db.Close())
	ctx := context.Background()

	_, err := service.List(ctx)
	assert.Error(t, err)

	_, err = service.Create(ctx, CreateTodoInput{Title: "Buy milk"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidTitle)

	_, err = service.Get(ctx, 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrTodoNotFound)

	err = service.Delete(ctx, 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrTodoNotFound)
}

func TestTodoService_HardDeleteNeverCachesRows(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewTodoRepository(db.DB())
	s := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	defer rdb.Close()

	service := NewTodoService(repo, HardDelete, r.TodoCache(rdb, time.Minute), nil)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateTodoInput{Title: "Buy milk"})
	require.NoError(t, err)

	_, err = service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, s.Exists("todo:1"), "fetch must not populate the cache")

	_, err = service.Update(ctx, created.ID, UpdateTodoInput{Completed: true})
	require.NoError(t, err)
	assert.False(t, s.Exists("todo:1"), "update must not populate the cache")

	t.Run("stale entry is cleared by update", func(t *testing.T) {
		require.NoError(t, s.Set("todo:1", `{"id":1,"title":"stale","completed":false,"created_at":"2024-01-01 00:00:00"}`))

		updated, err := service.Update(ctx, created.ID, UpdateTodoInput{Completed: false})
		require.NoError(t, err)
		assert.Equal(t, "Buy milk", updated.Title)
		assert.False(t, s.Exists("todo:1"))
	})

	require.NoError(t, service.Delete(ctx, created.ID))
	_, err = service.Get(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrTodoNotFound)
}

var _ EventPublisher = (*ws.Hub)(nil)
var _ r.Cache[domain.Todo] = (*r.JSONCache[domain.Todo])(nil)
