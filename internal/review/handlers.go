package review

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

// Handlers exposes the review subsystem over HTTP.
type Handlers struct {
	svc   *Service
	users UserDirectory
}

// NewHandlers wraps svc. users may be nil when notifications are disabled.
func NewHandlers(svc *Service, users UserDirectory) *Handlers {
	return &Handlers{svc: svc, users: users}
}

// HandleProReviews - GET /pros/:name/reviews (public stats + list)
func (h *Handlers) HandleProReviews(c echo.Context) error {
	stats, err := h.svc.StatsFor(c.Request().Context(), c.Param("name"))
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// HandleEligibility - GET /pros/:name/reviews/eligibility (client)
func (h *Handlers) HandleEligibility(c echo.Context) error {
	clientName, _ := c.Get("user_name").(string)
	ok, err := h.svc.CanReview(c.Request().Context(), clientName, c.Param("name"))
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"can_review": ok})
}

// HandleCreate - POST /pros/:name/reviews (client reviews a completed job)
func (h *Handlers) HandleCreate(c echo.Context) error {
	clientName, _ := c.Get("user_name").(string)
	proName := c.Param("name")

	var body struct {
		Rating   int    `json:"rating"`
		Text     string `json:"text"`
		JobTitle string `json:"job_title"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	ctx := c.Request().Context()

	ok, err := h.svc.CanReview(ctx, clientName, proName)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return httpx.Error(c, err)
	}
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no completed unreviewed job with this professional"})
	}

	rev, err := h.svc.Add(ctx, proName, model.Review{
		ClientName: clientName,
		Rating:     body.Rating,
		Text:       body.Text,
		JobTitle:   body.JobTitle,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return httpx.Error(c, err)
	}

	// Burn the eligibility right away; a failure here is logged by the
	// service caller chain, not fatal to the created review.
	if err := h.svc.MarkJobAsReviewed(ctx, clientName, proName); err != nil {
		return httpx.Error(c, err)
	}

	if h.users != nil {
		if pro, perr := h.users.GetByName(ctx, proName); perr == nil && pro != nil {
			_ = alerts.EnqueueReviewReceived(rev.ID, proName, pro.Email, clientName, rev.Rating)
		}
	}
	return c.JSON(http.StatusCreated, rev)
}

// HandleRespond - POST /reviews/:id/response (professional replies once)
func (h *Handlers) HandleRespond(c echo.Context) error {
	proName, _ := c.Get("user_name").(string)
	reviewID := c.Param("id")

	var body struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	ctx := c.Request().Context()

	rev, err := h.svc.Get(ctx, reviewID)
	if err != nil {
		return httpx.Error(c, err)
	}
	if rev == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
	}
	if rev.ProfessionalName != proName {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your review"})
	}

	if err := h.svc.AddResponse(ctx, reviewID, body.Text); err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "response recorded"})
}
