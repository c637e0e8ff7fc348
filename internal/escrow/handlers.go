package escrow

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

// Handlers exposes the engine over HTTP.
type Handlers struct {
	svc   *Engine
	users UserDirectory
}

// NewHandlers wraps svc. users may be nil when notifications are disabled.
func NewHandlers(svc *Engine, users UserDirectory) *Handlers {
	return &Handlers{svc: svc, users: users}
}

// HandleList - GET /jobs (jobs where the caller is a party)
func (h *Handlers) HandleList(c echo.Context) error {
	name, _ := c.Get("user_name").(string)
	jobs, err := h.svc.ListFor(c.Request().Context(), name)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"jobs": jobs})
}

// HandleComplete - POST /jobs/:id/complete (either party confirms)
func (h *Handlers) HandleComplete(c echo.Context) error {
	name, _ := c.Get("user_name").(string)
	roleStr, _ := c.Get("role").(string)
	jobID := c.Param("id")

	role, err := model.ParseRole(roleStr)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only clients and professionals can confirm completion"})
	}

	var body struct {
		WorkReport string `json:"work_report"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	ctx := c.Request().Context()

	// The confirming party must actually be on the job.
	job, err := h.svc.Get(ctx, jobID)
	if err != nil {
		return httpx.Error(c, err)
	}
	if job == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
	}
	switch role {
	case model.RoleClient:
		if job.ClientName != name {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not the client of this job"})
		}
	case model.RolePro:
		if job.ProfessionalName != name {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not the professional of this job"})
		}
	}

	res, err := h.svc.SetJobCompleted(ctx, jobID, role, body.WorkReport)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return httpx.Error(c, err)
	}
	if res == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "job not found"})
	}

	message := "Confirmation recorded. Waiting for the other party."
	if res.IsFullyCompleted {
		message = "Job completed. Escrow released to the professional."
		if h.users != nil {
			if pro, perr := h.users.GetByName(ctx, res.Job.ProfessionalName); perr == nil && pro != nil {
				proEarning := res.Job.Price - res.Job.CommissionAmount
				_ = alerts.EnqueueJobSettled(res.Job.ID, res.Job.ProfessionalName, pro.Email, res.Job.CommissionAmount, proEarning)
			}
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"job":                res.Job,
		"is_fully_completed": res.IsFullyCompleted,
		"message":            message,
	})
}
