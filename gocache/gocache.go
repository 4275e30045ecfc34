// Package gocache caches course queries in memory and drops them when a
// generation session reports them stale.
//
// Keys follow the query-key convention used by the web client: a key is
// a list of parts, and invalidating a key drops every entry whose key
// starts with the same parts. Invalidating ("courses") therefore also
// drops ("courses", "archived") but not ("course", 42).
package gocache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/samarthsinh2660/fluentify"
)

// Interface compliance checks.
var (
	_ fluentify.Invalidator  = (*Cache)(nil)
	_ fluentify.CourseLister = (*CourseService)(nil)
)

// Default lifetimes, matching a stale-while-revalidate query client.
const (
	DefaultTTL             = 5 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute
)

// Cache is an in-memory query cache.
type Cache struct {
	c      *cache.Cache
	logger *slog.Logger
}

// New creates a Cache whose entries expire after ttl.
func New(ttl, cleanupInterval time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{c: cache.New(ttl, cleanupInterval), logger: logger}
}

// Key renders query key parts as a cache key.
func Key(parts ...any) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return strings.Join(s, "/")
}

// Get returns the cached value for the key parts.
func (c *Cache) Get(parts ...any) (any, bool) {
	return c.c.Get(Key(parts...))
}

// Set stores v under the key parts with the default lifetime.
func (c *Cache) Set(v any, parts ...any) {
	c.c.Set(Key(parts...), v, cache.DefaultExpiration)
}

// Invalidate drops every entry whose key starts with the given parts.
func (c *Cache) Invalidate(ctx context.Context, key ...any) {
	prefix := Key(key...)
	n := 0
	for k := range c.c.Items() {
		if k == prefix || strings.HasPrefix(k, prefix+"/") {
			c.c.Delete(k)
			n++
		}
	}
	c.logger.DebugContext(ctx, "invalidated queries", "key", prefix, "dropped", n)
}

// Len returns the number of unexpired entries.
func (c *Cache) Len() int {
	return c.c.ItemCount()
}
