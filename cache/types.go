package cache

import (
	"context"
	"time"
)

// Backend is the minimal contract a cache implementation has to satisfy.
// Everything else in Cache is derived from these four operations by New.
// A ttl <= 0 means the backend default (usually no expiry).
type Backend[V any] interface {
	Get(ctx context.Context, key string) (V, bool, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	SetIfAbsent(ctx context.Context, key string, value V, ttl time.Duration) error
	Remove(ctx context.Context, key string) error
}

// BatchBackend is implemented by backends with native multi-key reads and writes.
type BatchBackend[V any] interface {
	Backend[V]
	MGet(ctx context.Context, keys []string) (map[string]V, error)
	MSet(ctx context.Context, values map[string]V, ttl time.Duration) error
}

type hasBackend interface {
	Has(ctx context.Context, key string) (bool, error)
}

type Cache[V any] interface {
	Backend[V]

	Has(ctx context.Context, key string) (bool, error)
	MHas(ctx context.Context, keys []string) (map[string]bool, error)
	MGet(ctx context.Context, keys []string) (map[string]V, error)
	MSet(ctx context.Context, values map[string]V, ttl time.Duration) error
	MSetIfAbsent(ctx context.Context, values map[string]V, ttl time.Duration) error
	MRemove(ctx context.Context, keys []string) error

	Load(ctx context.Context, key string, fn LoadFn[V], opts ...LoadOption) (V, error)
	MLoad(ctx context.Context, keys []string, fn MLoadFn[V], opts ...LoadOption) (map[string]V, error)
}

type LoadFn[V any] func(ctx context.Context) (V, error)

// MLoadFn receives only the keys that were missing from the cache.
// Keys absent from the returned map are treated as not found.
type MLoadFn[V any] func(ctx context.Context, keys []string) (map[string]V, error)

// Store is a byte oriented key-value store. Wrap it with Encoded to get a typed Backend.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type BatchStore interface {
	Store
	MGet(ctx context.Context, keys []string) (map[string][]byte, error)
	MSet(ctx context.Context, values map[string][]byte, ttl time.Duration) error
}

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

type LoadOption func(*loadOptions)

type loadOptions struct {
	ttl  time.Duration
	fast bool
}

// Fast makes Load/MLoad return without waiting for the cache write.
// A failed write is logged and otherwise ignored.
func Fast() LoadOption {
	return func(o *loadOptions) { o.fast = true }
}

func TTL(ttl time.Duration) LoadOption {
	return func(o *loadOptions) { o.ttl = ttl }
}
