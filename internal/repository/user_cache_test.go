package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/chatapp-auth/internal/model"
)

// countingDirectory counts GetByID calls that reach the backing store.
type countingDirectory struct {
	*MemoryUserRepo
	byIDCalls int
}

func (c *countingDirectory) GetByID(ctx context.Context, id string) (*model.User, error) {
	c.byIDCalls++
	return c.MemoryUserRepo.GetByID(ctx, id)
}

func setupCacheTest(t *testing.T) (*CachedDirectory, *countingDirectory, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	next := &countingDirectory{MemoryUserRepo: NewMemoryUserRepo()}
	return NewCachedDirectory(next, rdb, time.Minute, "test").(*CachedDirectory), next, mr
}

func TestCachedDirectory_CreatePrimesCache(t *testing.T) {
	c, next, mr := setupCacheTest(t)
	ctx := context.Background()

	u, err := c.Create(ctx, newUser("alice", "alice@x.com"))
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:user:"+u.ID))

	got, err := c.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, u.PasswordHash, got.PasswordHash)
	assert.Equal(t, 0, next.byIDCalls)
}

func TestCachedDirectory_MissFillsCache(t *testing.T) {
	c, next, mr := setupCacheTest(t)
	ctx := context.Background()

	u, err := next.MemoryUserRepo.Create(ctx, newUser("bob", "bob@x.com"))
	require.NoError(t, err)

	_, err = c.GetByID(ctx, u.ID)
	require.NoError(t, err)
	_, err = c.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, next.byIDCalls)

	ttl := mr.TTL("test:user:" + u.ID)
	assert.True(t, ttl > 0 && ttl <= time.Minute)
}

func TestCachedDirectory_NotFoundIsNotCached(t *testing.T) {
	c, next, _ := setupCacheTest(t)

	_, err := c.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, next.byIDCalls)
}

func TestCachedDirectory_Invalidate(t *testing.T) {
	c, _, mr := setupCacheTest(t)
	ctx := context.Background()

	u, err := c.Create(ctx, newUser("carol", "carol@x.com"))
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, u.ID))
	assert.False(t, mr.Exists("test:user:"+u.ID))
}

func TestCachedDirectory_RedisDownFallsBack(t *testing.T) {
	c, next, mr := setupCacheTest(t)
	ctx := context.Background()

	u, err := next.MemoryUserRepo.Create(ctx, newUser("dave", "dave@x.com"))
	require.NoError(t, err)
	mr.Close()

	got, err := c.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestNewCachedDirectory_NilClient(t *testing.T) {
	next := NewMemoryUserRepo()
	assert.Same(t, UserDirectory(next), NewCachedDirectory(next, nil, time.Minute, "x"))
}
