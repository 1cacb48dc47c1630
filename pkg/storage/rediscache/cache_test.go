package rediscache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

// testRedisClient returns a client on DB 15 and skips when Redis is unavailable.
func testRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := envOr("REDIS_ADDR", "localhost:6379")
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: redis not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "test:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestGetOrRenderCachesOutput(t *testing.T) {
	client := testRedisClient(t)
	cache := New(client, Options{Prefix: "test:", TTL: time.Minute})
	ctx := context.Background()

	calls := 0
	render := func() (string, error) {
		calls++
		return "<main>home</main>", nil
	}

	first, err := cache.GetOrRender(ctx, "store-1/home", render)
	require.NoError(t, err)
	second, err := cache.GetOrRender(ctx, "store-1/home", render)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestGetOrRenderDoesNotCacheErrors(t *testing.T) {
	client := testRedisClient(t)
	cache := New(client, Options{Prefix: "test:"})
	ctx := context.Background()

	_, err := cache.GetOrRender(ctx, "store-1/broken", func() (string, error) {
		return "", errors.New("boom")
	})
	require.Error(t, err)

	exists, err := client.Exists(ctx, "test:store-1/broken").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}

func TestInvalidateDropsOnlyStorePrefix(t *testing.T) {
	client := testRedisClient(t)
	cache := New(client, Options{Prefix: "test:"})
	ctx := context.Background()

	for _, key := range []string{"store-1/home", "store-1/about", "store-2/home"} {
		_, err := cache.GetOrRender(ctx, key, func() (string, error) { return key, nil })
		require.NoError(t, err)
	}

	require.NoError(t, cache.Invalidate(ctx, pagebuilder.StoreCachePrefix("store-1")))

	keys, err := client.Keys(ctx, "test:*").Result()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"test:store-2/home"}, keys)
}
