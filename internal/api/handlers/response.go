package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func ErrNotFound(c echo.Context, message string) error {
	if message == "" {
		message = "not found"
	}
	return c.JSON(http.StatusNotFound, map[string]string{"error": message})
}

func ErrBadRequest(c echo.Context, message string) error {
	if message == "" {
		message = "invalid request"
	}
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

// ErrInternalServerError logs cause and answers with a generic body.
func ErrInternalServerError(c echo.Context, cause error) error {
	if cause != nil {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), cause)
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func ErrServiceUnavailable(c echo.Context, message string) error {
	return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": message})
}

func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
