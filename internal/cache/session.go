package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rolegate/rolegate/internal/model"
)

const (
	// revokedSessionPrefix marks session IDs that were logged out.
	revokedSessionPrefix = "session:revoked:"
	// sessionUserPrefix caches user lookups for session resolution.
	sessionUserPrefix = "session:user:"
	// sessionUserTTL bounds how stale a cached user may be, including one
	// deleted from the database since it was cached.
	sessionUserTTL = 5 * time.Minute
)

// CachedUser is the subset of a user stored in Redis for session resolution.
// Roles are not cached; admin status is always read from the database.
type CachedUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// RevokeSession marks a session as logged out until it would have expired.
// Sessions already past expiry need no marker.
func (c *Cache) RevokeSession(ctx context.Context, sessionID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(c.now())
	if ttl <= 0 {
		return nil
	}

	if err := c.client.Set(ctx, revokedSessionPrefix+sessionID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// IsSessionRevoked reports whether a session was logged out.
func (c *Cache) IsSessionRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := c.client.Exists(ctx, revokedSessionPrefix+sessionID).Result()
	if err != nil {
		return false, fmt.Errorf("check session revocation: %w", err)
	}
	return n > 0, nil
}

// GetSessionUser returns a cached user, or nil on miss.
func (c *Cache) GetSessionUser(ctx context.Context, userID string) (*model.User, error) {
	data, err := c.client.Get(ctx, sessionUserPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session user: %w", err)
	}

	var cached CachedUser
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &model.User{
		ID:        cached.ID,
		Email:     cached.Email,
		CreatedAt: cached.CreatedAt,
	}, nil
}

// SetSessionUser caches a user for session resolution.
func (c *Cache) SetSessionUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(CachedUser{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}

	return c.client.Set(ctx, sessionUserPrefix+user.ID, data, sessionUserTTL).Err()
}

// DeleteSessionUser drops a cached user.
func (c *Cache) DeleteSessionUser(ctx context.Context, userID string) error {
	return c.client.Del(ctx, sessionUserPrefix+userID).Err()
}
