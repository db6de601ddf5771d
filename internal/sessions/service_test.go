package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/devfolio/devfolio/internal/store"
	"github.com/stretchr/testify/require"
)

func TestCreateAndValidateSession(t *testing.T) {
	svc := NewService(NewStoreRepository(store.NewMemoryStore()))
	ctx := context.Background()

	sess, err := svc.Create(ctx, "op-1", time.Hour)
	require.NoError(t, err)
	require.Len(t, sess.Token, 64)

	got, err := svc.Validate(ctx, sess.Token)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "op-1", got.Sub)

	require.NoError(t, svc.Revoke(ctx, sess.Token))
	got, err = svc.Validate(ctx, sess.Token)
	require.NoError(t, err)
	require.Nil(t, got)
	require.NoError(t, svc.Revoke(ctx, sess.Token))
}

func TestValidateExpiredSession(t *testing.T) {
	repo := NewStoreRepository(store.NewMemoryStore())
	svc := NewService(repo)
	ctx := context.Background()
	sess, err := svc.Create(ctx, "op-1", time.Minute)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	got, err := svc.Validate(ctx, sess.Token)
	require.NoError(t, err)
	require.Nil(t, got)

	raw, err := repo.Get(ctx, sess.Token)
	require.NoError(t, err)
	require.Nil(t, raw, "expired session should be cleaned up")
}

type brokenRepo struct{}

func (brokenRepo) Create(context.Context, *Session) error { return store.ErrUnavailable }
func (brokenRepo) Get(context.Context, string) (*Session, error) {
	return nil, store.ErrUnavailable
}
func (brokenRepo) Delete(context.Context, string) error { return store.ErrUnavailable }

func TestValidateSurfacesOutage(t *testing.T) {
	_, err := NewService(brokenRepo{}).Validate(context.Background(), "tok")
	require.ErrorIs(t, err, store.ErrUnavailable)

	sess, err := NewService(brokenRepo{}).Validate(context.Background(), "")
	require.NoError(t, err)
	require.Nil(t, sess)
}
