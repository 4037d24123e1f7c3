package repository

// This file defines a Redis read-through cache in front of a UserDirectory.
// The access-control middleware resolves the user of every authenticated
// request by id, so GetByID is served from Redis when possible.  Email
// lookups always go to the backing store so login sees the current hash.
// Any Redis error degrades to the backing store.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/chatapp-auth/internal/model"
)

// cachedUser carries every field of model.User, including the hash that
// the public json view hides.
type cachedUser struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash"`
	Role         model.Role `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CachedDirectory wraps Next with a Redis cache keyed by user id.
type CachedDirectory struct {
	Next   UserDirectory
	RDB    *redis.Client
	TTL    time.Duration
	Prefix string
}

// NewCachedDirectory returns next unchanged when rdb is nil so callers can
// wire the cache unconditionally.
func NewCachedDirectory(next UserDirectory, rdb *redis.Client, ttl time.Duration, prefix string) UserDirectory {
	if rdb == nil {
		return next
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CachedDirectory{Next: next, RDB: rdb, TTL: ttl, Prefix: prefix}
}

func (c *CachedDirectory) key(id string) string { return c.Prefix + ":user:" + id }

func (c *CachedDirectory) Create(ctx context.Context, u *model.User) (*model.User, error) {
	out, err := c.Next.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	c.store(ctx, out)
	return out, nil
}

func (c *CachedDirectory) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return c.Next.GetByEmail(ctx, email)
}

func (c *CachedDirectory) GetByID(ctx context.Context, id string) (*model.User, error) {
	if bs, err := c.RDB.Get(ctx, c.key(id)).Bytes(); err == nil {
		var cu cachedUser
		if json.Unmarshal(bs, &cu) == nil {
			u := model.User(cu)
			return &u, nil
		}
	}
	u, err := c.Next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, u)
	return u, nil
}

// Delete removes a user from the backing store, when it supports removal,
// and drops the cached copy so Protect rejects the user's tokens at once.
func (c *CachedDirectory) Delete(ctx context.Context, id string) error {
	if d, ok := c.Next.(interface {
		Delete(ctx context.Context, id string) error
	}); ok {
		if err := d.Delete(ctx, id); err != nil {
			return err
		}
	} else if d, ok := c.Next.(interface{ Delete(id string) }); ok {
		d.Delete(id)
	}
	return c.Invalidate(ctx, id)
}

// Invalidate drops a cached user.
func (c *CachedDirectory) Invalidate(ctx context.Context, id string) error {
	return c.RDB.Del(ctx, c.key(id)).Err()
}

func (c *CachedDirectory) store(ctx context.Context, u *model.User) {
	bs, err := json.Marshal(cachedUser(*u))
	if err != nil {
		return
	}
	_ = c.RDB.SetEx(ctx, c.key(u.ID), bs, c.TTL).Err()
}
