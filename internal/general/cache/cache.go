package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kids-carpool/internal/general/config"
	"kids-carpool/internal/general/logger"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Cache is a small read-through JSON cache over Redis, used for the hot ride
// listing endpoints. A nil *Cache is valid and behaves as always-miss, so the
// service keeps working when Redis is unavailable at startup.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect builds a Redis-backed cache from config. Returns nil (not an error)
// when the server cannot be reached; lookups then degrade to the database.
func Connect(ctx context.Context, cfg *config.Config, log *logger.Logger) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Error(ctx, "redis_unavailable", "Redis unreachable, ride listing cache disabled", err, nil)
		_ = client.Close()
		return nil
	}

	log.Info(ctx, "redis_connected", "Redis connection established successfully", nil)
	return &Cache{client: client, ttl: cfg.Redis.CacheTTL}
}

// Close releases the underlying Redis client.
func (c *Cache) Close() {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Close()
}

// Get unmarshals the cached JSON value for key into dest.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	if c == nil {
		return ErrMiss
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		// stale or corrupt entry; treat as a miss so the caller refills it
		return ErrMiss
	}
	return nil
}

// Set stores value as JSON under key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	if c == nil {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", key, err)
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Invalidate removes the given keys. Used after writes that change listings.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	_ = c.client.Del(ctx, keys...).Err()
}
