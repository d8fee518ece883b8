package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(c echo.Context) error {
	if err := h.db.PingContext(c.Request().Context()); err != nil {
		c.Logger().Errorf("health check: %v", err)
		return ErrServiceUnavailable(c, "database unavailable")
	}
	return c.String(http.StatusOK, "ok")
}
