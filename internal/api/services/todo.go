package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	"todo/internal/api/ws"
	"todo/internal/domain"
	r "todo/internal/redis"
	"todo/internal/repository"
)

var (
	ErrInvalidTitle     = errors.New("title is required")
	ErrInvalidCompleted = errors.New("completed must be a boolean")
)

type DeletePolicy int

const (
	SoftDelete DeletePolicy = iota
	HardDelete
)

type EventPublisher interface {
	Publish(eventType string, data interface{})
}

type CreateTodoInput struct {
	Title string `valid:"required"`
}

type UpdateTodoInput struct {
	Completed bool
	Title     *string
}

type TodoService struct {
	todoRepo *repository.TodoRepository
	policy   DeletePolicy
	cache    r.Cache[domain.Todo]
	events   EventPublisher
	now      func() time.Time
}

// NewTodoService wires the service. cache and events may be nil.
func NewTodoService(
	todoRepo *repository.TodoRepository,
	policy DeletePolicy,
	cache r.Cache[domain.Todo],
	events EventPublisher,
) *TodoService {
	return &TodoService{
		todoRepo: todoRepo,
		policy:   policy,
		cache:    cache,
		events:   events,
		now:      time.Now,
	}
}

func (s *TodoService) List(ctx context.Context) ([]*domain.Todo, error) {
	todos, err := s.todoRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (s *TodoService) Create(ctx context.Context, input CreateTodoInput) (*domain.Todo, error) {
	input.Title = strings.TrimSpace(input.Title)
	if _, err := govalidator.ValidateStruct(input); err != nil {
		return nil, ErrInvalidTitle
	}

	todo := &domain.Todo{
		Title:     input.Title,
		Completed: false,
		CreatedAt: domain.FormatTimestamp(s.now()),
	}
	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	created, err := s.todoRepo.FindByID(ctx, todo.ID)
	if err != nil {
		return nil, fmt.Errorf("reload todo %d: %w", todo.ID, err)
	}

	s.publish(ws.EventTodoCreated, created)
	return created, nil
}

// Get reads a todo by id. Soft deleted todos are still returned.
func (s *TodoService) Get(ctx context.Context, id int64) (*domain.Todo, error) {
	key := strconv.FormatInt(id, 10)

	cached, err := s.cacheGet(ctx, key)
	if err != nil {
		log.Printf("[TodoService] cache get %s: %v", key, err)
	}
	if cached != nil {
		return cached, nil
	}

	todo, err := s.todoRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find todo %d: %w", id, err)
	}

	if s.cacheable() {
		s.cacheSet(ctx, key, todo)
	}
	return todo, nil
}

func (s *TodoService) Update(ctx context.Context, id int64, input UpdateTodoInput) (*domain.Todo, error) {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrInvalidTitle
		}
		input.Title = &title
	}

	if err := s.todoRepo.Update(ctx, id, input.Title, input.Completed); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update todo %d: %w", id, err)
	}

	updated, err := s.todoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload todo %d: %w", id, err)
	}

	if s.cacheable() {
		s.cacheSet(ctx, strconv.FormatInt(id, 10), updated)
	} else {
		s.cacheDelete(ctx, strconv.FormatInt(id, 10))
	}
	s.publish(ws.EventTodoUpdated, updated)
	return updated, nil
}

func (s *TodoService) Delete(ctx context.Context, id int64) error {
	var err error
	switch s.policy {
	case HardDelete:
		err = s.todoRepo.HardDelete(ctx, id)
	default:
		err = s.todoRepo.SoftDelete(ctx, id, domain.FormatTimestamp(s.now()))
	}
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return err
		}
		return fmt.Errorf("delete todo %d: %w", id, err)
	}

	s.cacheDelete(ctx, strconv.FormatInt(id, 10))
	s.publish(ws.EventTodoDeleted, map[string]int64{"id": id})
	return nil
}

// cacheable reports whether reads may populate the cache. Under hard delete a
// read racing a delete could write back a row that no longer exists.
func (s *TodoService) cacheable() bool {
	return s.policy != HardDelete
}

func (s *TodoService) cacheGet(ctx context.Context, key string) (*domain.Todo, error) {
	if s.cache == nil {
		return nil, nil
	}
	return s.cache.Get(ctx, key)
}

func (s *TodoService) cacheSet(ctx context.Context, key string, todo *domain.Todo) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, todo); err != nil {
		log.Printf("[TodoService] cache set %s: %v", key, err)
	}
}

func (s *TodoService) cacheDelete(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Printf("[TodoService] cache delete %s: %v", key, err)
	}
}

func (s *TodoService) publish(eventType string, data interface{}) {
	if s.events == nil {
		return
	}
	s.events.Publish(eventType, data)
}
