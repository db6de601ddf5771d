package operators

import (
	"context"
	"testing"
	"time"

	"github.com/devfolio/devfolio/internal/config"
	"github.com/devfolio/devfolio/internal/store"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(NewStoreRepository(store.NewMemoryStore()))
	svc.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc
}

func TestEnsureBootstrapAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	op, err := svc.EnsureBootstrap(ctx, config.AdminConfig{Email: " Owner@Example.com", Name: "Owner", Password: "s3cret"})
	require.NoError(t, err)
	require.NotEmpty(t, op.ID)
	require.Equal(t, "owner@example.com", op.Email)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte("s3cret")))

	again, err := svc.EnsureBootstrap(ctx, config.AdminConfig{Email: "owner@example.com", Name: "Owner"})
	require.NoError(t, err)
	require.Equal(t, op.ID, again.ID, "bootstrap must not duplicate the operator")
	require.Equal(t, op.PasswordHash, again.PasswordHash)

	got, err := svc.Authenticate(ctx, "OWNER@example.com", "s3cret")
	require.NoError(t, err)
	require.Equal(t, op.ID, got.ID)
	require.Equal(t, svc.now(), got.LastLoginAt)

	_, err = svc.Authenticate(ctx, "owner@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody@example.com", "s3cret")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	byID, err := svc.GetByID(ctx, op.ID)
	require.NoError(t, err)
	require.Equal(t, "Owner", byID.Name)
	missing, err := svc.GetByID(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestEnsureBootstrapWithoutEmail(t *testing.T) {
	op, err := newService(t).EnsureBootstrap(context.Background(), config.AdminConfig{})
	require.NoError(t, err)
	require.Nil(t, op)
}

func TestUpsertFromClaims(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	_, err = svc.EnsureBootstrap(ctx, config.AdminConfig{Email: "x@example.com", PasswordHash: hash})
	require.NoError(t, err)

	u, err := svc.UpsertFromClaims(ctx, map[string]interface{}{
		"sub":   "sub-123",
		"email": "x@example.com",
		"name":  "X User",
	})
	require.NoError(t, err)
	require.Equal(t, "sub-123", u.Sub)
	require.Equal(t, "X User", u.Name)
	require.Equal(t, hash, u.PasswordHash)

	_, err = svc.UpsertFromClaims(ctx, map[string]interface{}{"sub": "s", "email": "stranger@example.com"})
	require.ErrorIs(t, err, ErrNotOperator)

	u2, err := svc.UpsertFromClaims(ctx, map[string]interface{}{"email": "x@example.com"})
	require.NoError(t, err)
	require.Nil(t, u2)
}
