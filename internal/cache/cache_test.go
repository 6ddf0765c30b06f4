package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Vladiumnika/forumblackdynasty/internal/config"
	"github.com/Vladiumnika/forumblackdynasty/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewFromClient(rdb, "")
	t.Cleanup(func() { _ = c.Close() })

	return c, mr
}

func TestRedis_PutGet(t *testing.T) {
	t.Parallel()

	c, mr := newTestCache(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	s := &models.RefreshSession{
		TokenHash: "h1",
		UserID:    uuid.New(),
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}

	require.NoError(t, c.Put(ctx, s))

	got, ok, err := c.Get(ctx, "h1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, s.UserID, got.UserID)
	require.True(t, s.ExpiresAt.Equal(got.ExpiresAt))
	require.True(t, s.CreatedAt.Equal(got.CreatedAt))
	require.False(t, got.Revoked)

	require.True(t, mr.Exists(defaultPrefix+"h1"))
	require.Greater(t, mr.TTL(defaultPrefix+"h1"), 59*time.Minute)

	// Запись живёт до ExpiresAt.
	mr.FastForward(2 * time.Hour)
	_, ok, err = c.Get(ctx, "h1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedis_PutSkipsExpired(t *testing.T) {
	t.Parallel()

	c, mr := newTestCache(t)

	s := &models.RefreshSession{TokenHash: "old", UserID: uuid.New(), ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, c.Put(context.Background(), s))
	require.False(t, mr.Exists(defaultPrefix+"old"))
}

func TestRedis_Invalidate(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t)
	ctx := context.Background()

	for _, h := range []string{"a", "b"} {
		require.NoError(t, c.Put(ctx, &models.RefreshSession{TokenHash: h, UserID: uuid.New(), ExpiresAt: time.Now().Add(time.Hour)}))
	}

	require.NoError(t, c.Invalidate(ctx, "a", "b", "missing"))
	require.NoError(t, c.Invalidate(ctx))

	_, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedis_GetCorrupted(t *testing.T) {
	t.Parallel()

	c, mr := newTestCache(t)
	mr.HSet(defaultPrefix+"bad", "uid", "not-a-uuid", "exp", "1")

	_, _, err := c.Get(context.Background(), "bad")
	require.Error(t, err)
}

func TestNew(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)

	c, err := New(context.Background(), config.RedisConfig{URL: "redis://" + mr.Addr() + "/0", KeyPrefix: "p:"})
	require.NoError(t, err)
	defer c.Close()
	require.Equal(t, "p:x", c.key("x"))

	_, err = New(context.Background(), config.RedisConfig{URL: "::"})
	require.Error(t, err)
}
