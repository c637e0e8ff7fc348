// Package auth registers accounts and issues JWTs. Identity travels in the
// token and is injected into handlers by the middleware; no core operation
// reads a global current user.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/bravo-servizi/bravo/internal/model"
	"github.com/bravo-servizi/bravo/internal/store"
)

var (
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid credentials")
	ErrInvalidInput   = errors.New("invalid input")
)

// Service handles registration, login and role switching.
type Service struct {
	store      store.Store
	secret     []byte
	expiry     time.Duration
	adminEmail string
}

// New returns an auth Service. adminEmail, when non-empty, names the one
// account that gets the admin claim at login.
func New(st store.Store, secret string, expiry time.Duration, adminEmail string) *Service {
	return &Service{store: st, secret: []byte(secret), expiry: expiry, adminEmail: adminEmail}
}

// Register creates an account. New users start unverified with an empty
// wallet regardless of what the caller sent.
func (s *Service) Register(ctx context.Context, user model.User) (*model.User, error) {
	if user.Email == "" || user.Name == "" || user.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password required", ErrInvalidInput)
	}
	if _, err := model.ParseRole(string(user.Role)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	existing, err := s.findByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.Password = string(hashed)
	user.VerificationStatus = "none"
	user.IsVerified = false
	user.WalletBalance = 0

	if err := s.store.Upsert(ctx, store.TableUsers, user.Email, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials and returns the user plus a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password required", ErrInvalidInput)
	}
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrBadCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SwitchRole flips an account between client and professional and returns a
// fresh token carrying the new role.
func (s *Service) SwitchRole(ctx context.Context, email string, role model.Role) (*model.User, string, error) {
	if _, err := model.ParseRole(string(role)); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", fmt.Errorf("user %s: %w", email, store.ErrNotFound)
	}

	user.Role = role
	if err := s.store.Upsert(ctx, store.TableUsers, user.Email, user); err != nil {
		return nil, "", err
	}
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Get returns the account for email, or nil.
func (s *Service) Get(ctx context.Context, email string) (*model.User, error) {
	return s.findByEmail(ctx, email)
}

// GetByName returns the first account with the given display name, or nil.
// Names are the weak reference the job and review records use.
func (s *Service) GetByName(ctx context.Context, name string) (*model.User, error) {
	recs, err := s.store.GetAll(ctx, store.TableUsers)
	if err != nil {
		return nil, err
	}
	users, err := store.DecodeAll[model.User](recs)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Name == name {
			return &users[i], nil
		}
	}
	return nil, nil
}

// IssueToken signs an HS256 token carrying the caller's identity and role.
func (s *Service) IssueToken(user *model.User) (string, error) {
	role := string(user.Role)
	if s.adminEmail != "" && user.Email == s.adminEmail {
		role = "admin"
	}
	claims := jwt.MapClaims{
		"name":  user.Name,
		"email": user.Email,
		"role":  role,
		"exp":   time.Now().Add(s.expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) findByEmail(ctx context.Context, email string) (*model.User, error) {
	recs, err := s.store.GetAll(ctx, store.TableUsers)
	if err != nil {
		return nil, err
	}
	users, err := store.DecodeAll[model.User](recs)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, nil
}
