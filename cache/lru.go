package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// DefaultLRUCacheSize is the default size for the LRU cache.
	DefaultLRUCacheSize = 10000
	// DefaultLRUCacheTTL is the default time-to-live for items in the LRU cache.
	DefaultLRUCacheTTL = 1 * time.Hour
)

// LRU is an in-process typed Backend with a bounded number of entries.
// Values are stored as is, without encoding.
type LRU[V any] struct {
	lru *expirable.LRU[string, V]
	// serializes SetIfAbsent against other writers
	mu sync.Mutex
}

var _ BatchBackend[int] = (*LRU[int])(nil)

// NewLRU creates a new LRU backend.
// size specifies the maximum number of items the cache can hold.
// If size is 0 or negative, DefaultLRUCacheSize is used; a non-positive ttl means DefaultLRUCacheTTL.
func NewLRU[V any](size int, ttl time.Duration) *LRU[V] {
	if size <= 0 {
		size = DefaultLRUCacheSize
	}

	if ttl <= 0 {
		ttl = DefaultLRUCacheTTL
	}

	return &LRU[V]{
		lru: expirable.NewLRU[string, V](size, nil, ttl),
	}
}

func (c *LRU[V]) Get(_ context.Context, key string) (V, bool, error) {
	v, found := c.lru.Get(key)

	return v, found, nil
}

func (c *LRU[V]) Has(_ context.Context, key string) (bool, error) {
	return c.lru.Contains(key), nil
}

// Set stores value. expirable.LRU only supports the TTL given at construction,
// so the ttl argument is ignored.
func (c *LRU[V]) Set(_ context.Context, key string, value V, _ time.Duration) error {
	c.mu.Lock()
	c.lru.Add(key, value)
	c.mu.Unlock()

	return nil
}

func (c *LRU[V]) SetIfAbsent(_ context.Context, key string, value V, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lru.Contains(key) {
		c.lru.Add(key, value)
	}

	return nil
}

func (c *LRU[V]) Remove(_ context.Context, key string) error {
	c.lru.Remove(key)

	return nil
}

func (c *LRU[V]) MGet(_ context.Context, keys []string) (map[string]V, error) {
	found := make(map[string]V, len(keys))

	for _, key := range keys {
		if v, ok := c.lru.Get(key); ok {
			found[key] = v
		}
	}

	return found, nil
}

func (c *LRU[V]) MSet(_ context.Context, values map[string]V, _ time.Duration) error {
	c.mu.Lock()
	for k, v := range values {
		c.lru.Add(k, v)
	}
	c.mu.Unlock()

	return nil
}

func (c *LRU[V]) Len() int {
	return c.lru.Len()
}

// Purge removes every entry.
func (c *LRU[V]) Purge() {
	c.lru.Purge()
}
