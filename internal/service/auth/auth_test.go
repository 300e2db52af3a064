package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akulinich/gazzeta/internal/apperrors"
	"github.com/akulinich/gazzeta/internal/models"
)

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	manager, _ := newTestManager(t, TokenConfig{})
	users := newFakeUserRepo()
	return NewAuthService(users, manager, nil), users
}

func TestAuthService_Register(t *testing.T) {
	service, _ := newTestAuthService(t)
	ctx := context.Background()

	user, pair, err := service.Register(ctx, "gopher", "gopher@example.com", "password")
	require.NoError(t, err)
	require.Equal(t, models.RoleUser, user.Role)
	require.NotEmpty(t, pair.Access.Value)
	require.NotEmpty(t, pair.Refresh.Value)

	// Password must be stored hashed
	require.NotEqual(t, "password", user.HashedPassword)

	_, _, err = service.Register(ctx, "gopher", "gopher@example.com", "password")
	require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
}

func TestAuthService_RegisterAdmin(t *testing.T) {
	service, _ := newTestAuthService(t)

	user, _, err := service.RegisterAdmin(context.Background(), "boss", "boss@example.com", "password")
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, user.Role)
}

func TestAuthService_Login(t *testing.T) {
	service, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, _, err := service.Register(ctx, "gopher", "gopher@example.com", "password")
	require.NoError(t, err)

	t.Run("ok", func(t *testing.T) {
		user, pair, err := service.Login(ctx, "gopher@example.com", "password")
		require.NoError(t, err)
		require.Equal(t, registered.ID, user.ID)
		require.NotEmpty(t, pair.Access.Value)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := service.Login(ctx, "gopher@example.com", "nope")
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := service.Login(ctx, "nobody@example.com", "password")
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	service, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, pair, err := service.Register(ctx, "gopher", "gopher@example.com", "password")
	require.NoError(t, err)

	user, next, err := service.Refresh(ctx, pair.Refresh.Value)
	require.NoError(t, err)
	require.Equal(t, registered.ID, user.ID)
	require.NotEqual(t, pair.Refresh.Value, next.Refresh.Value)

	// The rotated-out token must not work again
	_, _, err = service.Refresh(ctx, pair.Refresh.Value)
	require.ErrorIs(t, err, apperrors.ErrRefreshTokenIsUsed)
}

func TestAuthService_Logout(t *testing.T) {
	service, _ := newTestAuthService(t)
	ctx := context.Background()

	_, pair, err := service.Register(ctx, "gopher", "gopher@example.com", "password")
	require.NoError(t, err)

	require.NoError(t, service.Logout(ctx, pair.Refresh.Value))

	_, _, err = service.Refresh(ctx, pair.Refresh.Value)
	require.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)

	// Idempotent: empty and unknown tokens are fine
	require.NoError(t, service.Logout(ctx, ""))
	require.NoError(t, service.Logout(ctx, pair.Refresh.Value))
}
