package wallet

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bravo-servizi/bravo/internal/httpx"
)

// Handlers exposes wallet reads over HTTP. Credits have no endpoint: the
// only writer is the escrow release step.
type Handlers struct {
	svc *Service
}

// NewHandlers wraps svc.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleBalance - GET /wallet/balance (professional)
func (h *Handlers) HandleBalance(c echo.Context) error {
	name, _ := c.Get("user_name").(string)
	balance, err := h.svc.Balance(c.Request().Context(), name)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"professional": name,
		"balance":      balance,
	})
}
