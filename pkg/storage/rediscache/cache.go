// Package rediscache stores rendered storefront HTML in Redis so every
// instance of the storefront shares one cache.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

const (
	// DefaultKeyPrefix namespaces page cache keys.
	DefaultKeyPrefix = "pagebuilder:page:"

	// DefaultTTL is how long a rendered page stays cached.
	DefaultTTL = 5 * time.Minute

	scanBatch = 100
)

// Options configures a Cache.
type Options struct {
	Prefix string
	TTL    time.Duration
	Logger *zap.Logger
}

// Cache implements pagebuilder.RenderCache on a Redis client.
type Cache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

var _ pagebuilder.RenderCache = (*Cache)(nil)

// New wraps a connected client.
func New(client redis.UniversalClient, opts Options) *Cache {
	if opts.Prefix == "" {
		opts.Prefix = DefaultKeyPrefix
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Cache{client: client, prefix: opts.Prefix, ttl: opts.TTL, logger: opts.Logger}
}

// Connect creates a client for addr and verifies it with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

// GetOrRender serves key from Redis or renders and stores it. Redis failures
// degrade to rendering; they never fail the request.
func (c *Cache) GetOrRender(ctx context.Context, key string, render func() (string, error)) (string, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	switch {
	case err == nil:
		c.logger.Debug("page cache hit", zap.String("key", key))
		return val, nil
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("page cache get error", zap.String("key", key), zap.Error(err))
	}

	html, err := render()
	if err != nil {
		return "", err
	}
	if err := c.client.Set(ctx, c.prefix+key, html, c.ttl).Err(); err != nil {
		c.logger.Warn("page cache set error", zap.String("key", key), zap.Error(err))
	}
	return html, nil
}

// Invalidate removes every cached page whose key starts with prefix.
func (c *Cache) Invalidate(ctx context.Context, prefix string) error {
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+prefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("page cache scan: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("page cache delete: %w", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		c.logger.Info("page cache invalidated", zap.String("prefix", prefix), zap.Int("deleted", deleted))
	}
	return nil
}
