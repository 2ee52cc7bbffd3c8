package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/identitykit/account-service/internal/api/metrics"
	"github.com/identitykit/account-service/internal/core/ports"
)

const cacheTTL = 5 * time.Minute

// UserCache is a read-through cache of user views backed by Redis.
// Key format: user:<id>
type UserCache struct {
	client *redis.Client
}

// NewUserCache creates a UserCache wrapping the given Redis client.
func NewUserCache(client *redis.Client) *UserCache {
	return &UserCache{client: client}
}

// Get returns the cached view for id, or (nil, nil) on a miss.
func (c *UserCache) Get(ctx context.Context, id string) (*ports.UserView, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var view ports.UserView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return &view, nil
}

// Set stores the view (expires after cacheTTL).
func (c *UserCache) Set(ctx context.Context, view *ports.UserView) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(view.ID), raw, cacheTTL).Err()
}

// Invalidate removes the cached view after a successful mutation.
func (c *UserCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

func (c *UserCache) key(id string) string {
	return "user:" + id
}
