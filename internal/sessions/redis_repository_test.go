package sessions

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisRepository_CreateGetDelete(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepository(client, "test:session:")

	ctx := context.Background()
	s := &Session{
		Token:     "r1",
		Sub:       "op-1",
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(5 * time.Second),
	}
	require.NoError(t, repo.Create(ctx, s))
	require.True(t, m.Exists("test:session:r1"))

	got, err := repo.Get(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, s.Sub, got.Sub)
	require.Equal(t, "r1", got.Token)

	require.NoError(t, repo.Delete(ctx, "r1"))
	got2, err := repo.Get(ctx, "r1")
	require.NoError(t, err)
	require.Nil(t, got2)
}

func TestRedisRepository_TTLExpiry(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	repo := NewRedisRepository(client, "")

	ctx := context.Background()
	s := &Session{
		Token:     "r2",
		Sub:       "op-2",
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(1 * time.Second),
	}
	require.NoError(t, repo.Create(ctx, s))
	require.True(t, m.Exists("session:r2"))

	got, err := repo.Get(ctx, "r2")
	require.NoError(t, err)
	require.NotNil(t, got)

	m.FastForward(2 * time.Second)

	got2, err := repo.Get(ctx, "r2")
	require.NoError(t, err)
	require.Nil(t, got2)
}

func TestRedisBlacklist(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	bl := NewRedisBlacklist(redis.NewClient(&redis.Options{Addr: m.Addr()}))
	ctx := context.Background()
	require.NoError(t, bl.Add(ctx, "access-token-1", 2*time.Second))

	ok, err := bl.Contains(ctx, "access-token-1")
	require.NoError(t, err)
	require.True(t, ok)

	m.FastForward(3 * time.Second)
	ok, err = bl.Contains(ctx, "access-token-1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryBlacklist(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(0, 0)
	bl := NewMemoryBlacklist()
	bl.now = func() time.Time { return now }

	require.NoError(t, bl.Add(ctx, "t", time.Minute))
	ok, _ := bl.Contains(ctx, "t")
	require.True(t, ok)
	now = now.Add(time.Minute)
	ok, _ = bl.Contains(ctx, "t")
	require.False(t, ok)
}
