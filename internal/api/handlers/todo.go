package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"todo/internal/api/dto"
	"todo/internal/api/services"
	"todo/internal/domain"
	"todo/internal/repository"
)

type TodoHandler struct {
	todoService *services.TodoService
}

func NewTodoHandler(todoService *services.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

// ListTodos godoc
// @Summary List todos
// @Description Active todos, newest first
// @Tags todos
// @Produce json
// @Success 200 {array} dto.Todo
// @Failure 500 {object} map[string]string
// @Router /todos [get]
func (h *TodoHandler) ListTodos(c echo.Context) error {
	todos, err := h.todoService.List(c.Request().Context())
	if err != nil {
		return ErrInternalServerError(c, err)
	}

	return c.JSON(http.StatusOK, dto.TodosFromDomain(todos))
}

// CreateTodo godoc
// @Summary Create todo
// @Description Creates a todo and returns the stored record
// @Tags todos
// @Accept json
// @Produce json
// @Param request body dto.CreateTodoRequest true "Create todo request"
// @Success 200 {object} dto.Todo
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /todos [post]
func (h *TodoHandler) CreateTodo(c echo.Context) error {
	var req dto.CreateTodoRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request")
	}

	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, services.ErrInvalidTitle.Error())
	}

	todo, err := h.todoService.Create(c.Request().Context(), services.CreateTodoInput{Title: req.Title})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTitle):
			return ErrBadRequest(c, err.Error())
		default:
			return ErrInternalServerError(c, err)
		}
	}

	return c.JSON(http.StatusOK, dto.TodoFromDomain(todo))
}

// GetTodo godoc
// @Summary Get todo
// @Description Fetches a todo by id, including soft deleted ones
// @Tags todos
// @Produce json
// @Param id path int true "Todo ID"
// @Success 200 {object} dto.Todo
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /todos/{id} [get]
func (h *TodoHandler) GetTodo(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return ErrBadRequest(c, "invalid id")
	}

	todo, err := h.todoService.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return ErrNotFound(c, "todo not found")
		}
		return ErrInternalServerError(c, err)
	}

	return c.JSON(http.StatusOK, dto.TodoFromDomain(todo))
}

// UpdateTodo godoc
// @Summary Update todo
// @Description Sets completed (true, false, 0, 1, "0" or "1") and optionally the title
// @Tags todos
// @Accept json
// @Produce json
// @Param id path int true "Todo ID"
// @Param request body dto.UpdateTodoRequest true "Update todo request"
// @Success 200 {object} dto.Todo
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /todos/{id} [put]
func (h *TodoHandler) UpdateTodo(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return ErrBadRequest(c, "invalid id")
	}

	var req dto.UpdateTodoRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request")
	}

	completed, err := domain.ParseCompleted(req.Completed)
	if err != nil {
		return ErrBadRequest(c, services.ErrInvalidCompleted.Error())
	}

	todo, err := h.todoService.Update(c.Request().Context(), id, services.UpdateTodoInput{
		Completed: completed,
		Title:     req.Title,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidTitle):
			return ErrBadRequest(c, err.Error())
		case errors.Is(err, repository.ErrTodoNotFound):
			return ErrNotFound(c, "todo not found")
		default:
			return ErrInternalServerError(c, err)
		}
	}

	return c.JSON(http.StatusOK, dto.TodoFromDomain(todo))
}

// DeleteTodo godoc
// @Summary Delete todo
// @Description Soft or hard deletes a todo depending on the server's delete policy
// @Tags todos
// @Param id path int true "Todo ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /todos/{id} [delete]
func (h *TodoHandler) DeleteTodo(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return ErrBadRequest(c, "invalid id")
	}

	if err := h.todoService.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return ErrNotFound(c, "todo not found")
		}
		return ErrInternalServerError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
