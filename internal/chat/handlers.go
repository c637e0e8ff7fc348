package chat

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bravo-servizi/bravo/internal/httpx"
	"github.com/bravo-servizi/bravo/internal/model"
)

// Handlers exposes chat thread persistence over HTTP.
type Handlers struct {
	svc *Service
}

// NewHandlers wraps svc.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleList - GET /chats (caller's threads)
func (h *Handlers) HandleList(c echo.Context) error {
	name, _ := c.Get("user_name").(string)
	threads, err := h.svc.ListFor(c.Request().Context(), name)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"chats": threads})
}

// HandleSave - PUT /chats (upsert a whole thread)
func (h *Handlers) HandleSave(c echo.Context) error {
	var thread model.ChatThread
	if err := c.Bind(&thread); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	name, _ := c.Get("user_name").(string)
	if thread.ClientName != name && thread.ProfessionalName != name {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this thread"})
	}

	if err := h.svc.Save(c.Request().Context(), thread); err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "thread saved"})
}
