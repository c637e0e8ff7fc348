package board

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bravo-servizi/bravo/internal/alerts"
	"github.com/bravo-servizi/bravo/internal/httpx"
	"github.com/bravo-servizi/bravo/internal/model"
)

// UserDirectory resolves a display name to an account, for notification
// addressing only.
type UserDirectory interface {
	GetByName(ctx context.Context, name string) (*model.User, error)
}

// Handlers exposes the board over HTTP.
type Handlers struct {
	svc   *Board
	users UserDirectory
}

// NewHandlers wraps svc. users may be nil when notifications are disabled.
func NewHandlers(svc *Board, users UserDirectory) *Handlers {
	return &Handlers{svc: svc, users: users}
}

// HandleList - GET /requests
func (h *Handlers) HandleList(c echo.Context) error {
	reqs, err := h.svc.List(c.Request().Context())
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": reqs})
}

// HandlePublish - POST /requests (client publishes a new need)
func (h *Handlers) HandlePublish(c echo.Context) error {
	var body struct {
		Category    string   `json:"category"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Location    string   `json:"location"`
		Budget      string   `json:"budget"`
		Images      []string `json:"images"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	draft := model.JobRequest{
		ClientID:    c.Get("user_email").(string),
		ClientName:  c.Get("user_name").(string),
		Category:    body.Category,
		Title:       body.Title,
		Description: body.Description,
		Location:    body.Location,
		Budget:      body.Budget,
		Images:      body.Images,
	}
	req, err := h.svc.Publish(c.Request().Context(), draft)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusCreated, req)
}

// HandleApply - POST /requests/:id/apply (professional applies)
func (h *Handlers) HandleApply(c echo.Context) error {
	proName, _ := c.Get("user_name").(string)
	requestID := c.Param("id")

	applied, err := h.svc.Apply(c.Request().Context(), requestID, proName)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return httpx.Error(c, err)
	}
	if !applied {
		return c.JSON(http.StatusConflict, echo.Map{"error": "request is not open or you already applied"})
	}

	// Notify the request owner (best-effort)
	if req, rerr := h.svc.Get(c.Request().Context(), requestID); rerr == nil && req != nil {
		_ = alerts.EnqueueJobApplied(requestID, proName, req.ClientID)
	}
	return c.JSON(http.StatusOK, echo.Map{"applied": true})
}

// HandleAccept - POST /requests/:id/accept (client accepts a proposal)
func (h *Handlers) HandleAccept(c echo.Context) error {
	clientName, _ := c.Get("user_name").(string)
	requestID := c.Param("id")

	var body struct {
		ProfessionalName string  `json:"professional_name"`
		Price            float64 `json:"price"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	job, err := h.svc.AcceptProposal(c.Request().Context(), requestID, body.ProfessionalName, clientName, body.Price)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return httpx.Error(c, err)
	}
	if job == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "request not found or no longer open"})
	}

	if h.users != nil {
		if pro, perr := h.users.GetByName(c.Request().Context(), job.ProfessionalName); perr == nil && pro != nil {
			_ = alerts.EnqueueJobAccepted(job.ID, requestID, job.ProfessionalName, clientName, pro.Email, job.Price)
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"job":     job,
		"message": "Proposal accepted. Funds held in escrow.",
	})
}
