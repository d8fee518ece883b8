package api

import (
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"

	"todo/internal/api/handlers"
	"todo/internal/api/services"
	"todo/internal/api/ws"
	"todo/internal/config"
	r "todo/internal/redis"
	"todo/internal/repository"
)

func SetupRoutes(e *echo.Echo, db *sqlx.DB, rdb *goredis.Client, hub *ws.Hub, cfg *config.Config) {
	e.Validator = NewValidator()

	healthHandler := handlers.NewHealthHandler(db)
	e.GET("/health", healthHandler.Check)

	policy := services.SoftDelete
	if !cfg.SoftDelete() {
		policy = services.HardDelete
	}
	todoService := services.NewTodoService(
		repository.NewTodoRepository(db),
		policy,
		r.TodoCache(rdb, cfg.Redis.TTL),
		hub,
	)

	todoHandler := handlers.NewTodoHandler(todoService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	todos := e.Group("/todos")
	todos.GET("", todoHandler.ListTodos)
	todos.POST("", todoHandler.CreateTodo)
	todos.GET("/ws", wsHandler.HandleConnection)
	todos.GET("/:id", todoHandler.GetTodo)
	todos.PUT("/:id", todoHandler.UpdateTodo)
	todos.DELETE("/:id", todoHandler.DeleteTodo)
}
