package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bravo-servizi/bravo/internal/httpx"
	"github.com/bravo-servizi/bravo/internal/model"
)

// Handlers exposes signup, login and session endpoints.
type Handlers struct {
	svc *Service
}

// NewHandlers wraps svc.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleSignup - POST /auth/signup
func (h *Handlers) HandleSignup(c echo.Context) error {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
		Phone    string `json:"phone"`
		Bio      string `json:"bio"`
		City     string `json:"city"`
		Piva     string `json:"piva"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, err := h.svc.Register(c.Request().Context(), model.User{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Role:     model.Role(body.Role),
		Phone:    body.Phone,
		Bio:      body.Bio,
		City:     body.City,
		Piva:     body.Piva,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		case errors.Is(err, ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return httpx.Error(c, err)
	}

	token, err := h.svc.IssueToken(user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"token": token, "user": user.Public()})
}

// HandleLogin - POST /auth/login
func (h *Handlers) HandleLogin(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, token, err := h.svc.Login(c.Request().Context(), body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadCredentials):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		case errors.Is(err, ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user.Public()})
}

// HandleMe - GET /auth/me
func (h *Handlers) HandleMe(c echo.Context) error {
	email, _ := c.Get("user_email").(string)
	user, err := h.svc.Get(c.Request().Context(), email)
	if err != nil {
		return httpx.Error(c, err)
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
	}
	return c.JSON(http.StatusOK, user.Public())
}

// HandleSwitchRole - POST /auth/role
func (h *Handlers) HandleSwitchRole(c echo.Context) error {
	email, _ := c.Get("user_email").(string)

	var body struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, token, err := h.svc.SwitchRole(c.Request().Context(), email, model.Role(body.Role))
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user.Public()})
}
