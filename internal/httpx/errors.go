// Package httpx maps core errors onto HTTP responses so every handler
// distinguishes "store down, retry" from "no such record".
package httpx

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bravo-servizi/bravo/internal/store"
)

// Error writes the response for err. Store unavailability is a 503 with a
// retryable hint; a missing record is a 404; anything else is a 500.
func Error(c echo.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"error":     "store unavailable, retry later",
			"retryable": true,
		})
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
