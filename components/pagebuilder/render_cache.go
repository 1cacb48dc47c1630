package pagebuilder

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

// RenderCache memoizes rendered storefront HTML so repeated visits are cheap.
type RenderCache interface {
	GetOrRender(ctx context.Context, key string, render func() (string, error)) (string, error)
	Invalidate(ctx context.Context, prefix string) error
}

// TTLRenderCache is an in-memory TTL cache for rendered pages.
type TTLRenderCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cachedPage
}

type cachedPage struct {
	html    string
	expires time.Time
}

var _ RenderCache = (*TTLRenderCache)(nil)

// NewTTLRenderCache builds a cache with the provided TTL. A non-positive TTL disables caching.
func NewTTLRenderCache(ttl time.Duration) *TTLRenderCache {
	return &TTLRenderCache{
		ttl:     ttl,
		entries: make(map[string]cachedPage),
	}
}

// GetOrRender returns a cached entry or renders/stores a new one.
func (c *TTLRenderCache) GetOrRender(_ context.Context, key string, render func() (string, error)) (string, error) {
	if html, ok := c.get(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.set(key, html)
	return html, nil
}

// Invalidate drops every entry whose key starts with prefix.
func (c *TTLRenderCache) Invalidate(_ context.Context, prefix string) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

// Len reports the number of live entries.
func (c *TTLRenderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *TTLRenderCache) get(key string) (string, bool) {
	if c == nil || c.ttl <= 0 {
		return "", false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		if ok {
			c.mu.Lock()
			delete(c.entries, key)
			c.mu.Unlock()
		}
		return "", false
	}
	return entry.html, true
}

func (c *TTLRenderCache) set(key, html string) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cachedPage{
		html:    html,
		expires: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// StoreCachePrefix is the key prefix shared by every cached page of a store.
func StoreCachePrefix(storeID string) string {
	return storeID + "/"
}

// PageCacheKey identifies one rendering of a page: its revision and theme.
func PageCacheKey(storeID, slug string, revision int64, theme ThemeTokens) string {
	return fmt.Sprintf("%s%s@%d#%s", StoreCachePrefix(storeID), slug, revision, themeHash(theme))
}

// themeHash returns a deterministic hash for a token set.
func themeHash(theme ThemeTokens) string {
	if len(theme) == 0 {
		return "empty"
	}
	b, err := json.Marshal(theme)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:8])
}

type noopRenderCache struct{}

func (noopRenderCache) GetOrRender(_ context.Context, _ string, render func() (string, error)) (string, error) {
	return render()
}

func (noopRenderCache) Invalidate(context.Context, string) error { return nil }
