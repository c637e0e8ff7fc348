package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bravo-servizi/bravo/internal/model"
	"github.com/bravo-servizi/bravo/internal/store"
)

func newService(adminEmail string) *Service {
	return New(store.NewMemory(), "test-secret", time.Hour, adminEmail)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newService("")

	created, err := svc.Register(ctx, model.User{
		Name: "Mario Rossi", Email: "mario@example.com",
		Password: "segreto123", Role: model.RolePro,
		WalletBalance: 999, IsVerified: true, VerificationStatus: "approved",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "segreto123", created.Password)
	assert.Equal(t, 0.0, created.WalletBalance)
	assert.False(t, created.IsVerified)
	assert.Equal(t, "none", created.VerificationStatus)

	user, token, err := svc.Login(ctx, "mario@example.com", "segreto123")
	require.NoError(t, err)
	assert.Equal(t, "Mario Rossi", user.Name)
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newService("")

	u := model.User{Name: "Mario Rossi", Email: "mario@example.com", Password: "segreto123", Role: model.RolePro}
	_, err := svc.Register(ctx, u)
	require.NoError(t, err)

	_, err = svc.Register(ctx, u)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService("")

	_, err := svc.Register(ctx, model.User{Email: "mario@example.com", Password: "x", Role: model.RolePro})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, model.User{Name: "Mario", Email: "mario@example.com", Password: "x", Role: "admin"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc := newService("")

	_, err := svc.Register(ctx, model.User{Name: "Mario Rossi", Email: "mario@example.com", Password: "segreto123", Role: model.RolePro})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "mario@example.com", "sbagliata")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, _, err = svc.Login(ctx, "nessuno@example.com", "segreto123")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestTokenClaims(t *testing.T) {
	ctx := context.Background()
	svc := newService("")

	_, err := svc.Register(ctx, model.User{Name: "Mario Rossi", Email: "mario@example.com", Password: "segreto123", Role: model.RolePro})
	require.NoError(t, err)
	_, token, err := svc.Login(ctx, "mario@example.com", "segreto123")
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "Mario Rossi", claims["name"])
	assert.Equal(t, "mario@example.com", claims["email"])
	assert.Equal(t, "professionista", claims["role"])
}

func TestAdminEmailGetsAdminClaim(t *testing.T) {
	ctx := context.Background()
	svc := newService("admin@example.com")

	_, err := svc.Register(ctx, model.User{Name: "Admin", Email: "admin@example.com", Password: "segreto123", Role: model.RoleClient})
	require.NoError(t, err)
	_, token, err := svc.Login(ctx, "admin@example.com", "segreto123")
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "admin", claims["role"])
}

func TestSwitchRole(t *testing.T) {
	ctx := context.Background()
	svc := newService("")

	_, err := svc.Register(ctx, model.User{Name: "Mario Rossi", Email: "mario@example.com", Password: "segreto123", Role: model.RoleClient})
	require.NoError(t, err)

	user, token, err := svc.SwitchRole(ctx, "mario@example.com", model.RolePro)
	require.NoError(t, err)
	assert.Equal(t, model.RolePro, user.Role)
	assert.NotEmpty(t, token)

	got, err := svc.Get(ctx, "mario@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.RolePro, got.Role)
}

func TestSwitchRoleRejectsUnknownRole(t *testing.T) {
	svc := newService("")
	_, _, err := svc.SwitchRole(context.Background(), "mario@example.com", "admin")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSwitchRoleUnknownUser(t *testing.T) {
	svc := newService("")
	_, _, err := svc.SwitchRole(context.Background(), "nessuno@example.com", model.RolePro)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetByName(t *testing.T) {
	ctx := context.Background()
	svc := newService("")

	_, err := svc.Register(ctx, model.User{Name: "Mario Rossi", Email: "mario@example.com", Password: "segreto123", Role: model.RolePro})
	require.NoError(t, err)

	got, err := svc.GetByName(ctx, "Mario Rossi")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "mario@example.com", got.Email)

	got, err = svc.GetByName(ctx, "Ghost")
	require.NoError(t, err)
	assert.Nil(t, got)
}
