package dto

import (
	"encoding/json"

	"todo/internal/domain"
)

type Todo struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Completed bool    `json:"completed"`
	CreatedAt string  `json:"created_at" example:"2024-03-05 07:08:09"`
	DeletedAt *string `json:"deleted_at"`
}

type CreateTodoRequest struct {
	Title string `json:"title" validate:"required" example:"Buy milk"`
}

// UpdateTodoRequest keeps completed raw so that the accepted literal forms can
// be checked exactly; see domain.ParseCompleted.
type UpdateTodoRequest struct {
	Completed json.RawMessage `json:"completed" swaggertype:"boolean"`
	Title     *string         `json:"title,omitempty"`
}

func TodoFromDomain(todo *domain.Todo) *Todo {
	if todo == nil {
		return nil
	}
	return &Todo{
		ID:        todo.ID,
		Title:     todo.Title,
		Completed: todo.Completed,
		CreatedAt: todo.CreatedAt,
		DeletedAt: todo.DeletedAt,
	}
}

func TodosFromDomain(todos []*domain.Todo) []*Todo {
	result := make([]*Todo, len(todos))
	for i, todo := range todos {
		result[i] = TodoFromDomain(todo)
	}
	return result
}
