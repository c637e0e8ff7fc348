package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bravo-servizi/bravo/internal/httpx"
)

// Handlers exposes the admin dashboard over HTTP.
type Handlers struct {
	svc *Service
}

// NewHandlers wraps svc.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleStats - GET /admin/stats
func (h *Handlers) HandleStats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// HandleApproveVerification - POST /admin/verifications/:email/approve
func (h *Handlers) HandleApproveVerification(c echo.Context) error {
	if err := h.svc.ApproveVerification(c.Request().Context(), c.Param("email")); err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "verification approved"})
}

// HandleRequestVerification - POST /verification/request (any signed-in user)
func (h *Handlers) HandleRequestVerification(c echo.Context) error {
	email, _ := c.Get("user_email").(string)
	if err := h.svc.RequestVerification(c.Request().Context(), email); err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "verification requested"})
}
