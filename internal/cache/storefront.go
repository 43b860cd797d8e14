// Package cache holds the Redis-backed storefront view cache. The cache is
// best-effort: Redis failures degrade to a database read, never to a request
// failure.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront-api/internal/model"
)

type StorefrontCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStorefrontCache connects to Redis. A nil *StorefrontCache is a valid
// disabled cache; all methods are nil-safe.
func NewStorefrontCache(ctx context.Context, addr string, ttl time.Duration) (*StorefrontCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	slog.Info("storefront cache connected", "addr", addr, "ttl", ttl)
	return &StorefrontCache{client: client, ttl: ttl}, nil
}

func (c *StorefrontCache) Get(ctx context.Context, publicID int64) (model.StorefrontView, bool) {
	if c == nil {
		return model.StorefrontView{}, false
	}

	raw, err := c.client.Get(ctx, key(publicID)).Bytes()
	if err != nil {
		return model.StorefrontView{}, false
	}

	var view model.StorefrontView
	if err := json.Unmarshal(raw, &view); err != nil {
		return model.StorefrontView{}, false
	}

	return view, true
}

func (c *StorefrontCache) Set(ctx context.Context, view model.StorefrontView) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(view)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, key(view.Store.PublicID), raw, c.ttl).Err(); err != nil {
		slog.Warn("storefront cache set failed", "error", err)
	}
}

func (c *StorefrontCache) Invalidate(ctx context.Context, publicID int64) {
	if c == nil {
		return
	}

	if err := c.client.Del(ctx, key(publicID)).Err(); err != nil {
		slog.Warn("storefront cache invalidate failed", "error", err)
	}
}

func (c *StorefrontCache) Close() error {
	if c == nil {
		return nil
	}

	return c.client.Close()
}

func key(publicID int64) string {
	return fmt.Sprintf("storefront:%d", publicID)
}
