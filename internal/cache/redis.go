// Package cache wraps the Redis connection used for rate limiting.
package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	UseTLS   bool
}

// Cache owns the Redis client. A nil *Cache is valid and lets everything
// through, so the bot runs without Redis configured.
type Cache struct {
	logger *slog.Logger
	client *redis.Client
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, logger *slog.Logger, cfg Config) (*Cache, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Cache{logger: logger.With("component", "cache"), client: client}, nil
}

// AllowAssist reports whether the conversation may spend another model assist
// call in the current one-minute window. Redis errors fail open.
func (c *Cache) AllowAssist(ctx context.Context, convID int64, perMinute int) bool {
	if c == nil {
		return true
	}
	key := fmt.Sprintf("assist:rate:%d:%d", convID, time.Now().Unix()/60)
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		c.logger.Warn("rate limit check failed", "error", err)
		return true
	}
	if n == 1 {
		c.client.Expire(ctx, key, 2*time.Minute)
	}
	return n <= int64(perMinute)
}

// Ping checks the connection.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the client.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
