package cache

import (
	"context"
	"strings"
	"time"
)

// Prefixed namespaces every key of the wrapped cache, so several logical caches
// can share one physical backend.
type Prefixed[V any] struct {
	origin Cache[V]
	prefix string
}

func WithPrefix[V any](prefix string, origin Cache[V]) *Prefixed[V] {
	return &Prefixed[V]{
		origin: origin,
		prefix: prefix,
	}
}

func (p *Prefixed[V]) Get(ctx context.Context, key string) (V, bool, error) {
	return p.origin.Get(ctx, p.prefix+key)
}

func (p *Prefixed[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	return p.origin.Set(ctx, p.prefix+key, value, ttl)
}

func (p *Prefixed[V]) SetIfAbsent(ctx context.Context, key string, value V, ttl time.Duration) error {
	return p.origin.SetIfAbsent(ctx, p.prefix+key, value, ttl)
}

func (p *Prefixed[V]) Remove(ctx context.Context, key string) error {
	return p.origin.Remove(ctx, p.prefix+key)
}

func (p *Prefixed[V]) Has(ctx context.Context, key string) (bool, error) {
	return p.origin.Has(ctx, p.prefix+key)
}

func (p *Prefixed[V]) MHas(ctx context.Context, keys []string) (map[string]bool, error) {
	res, err := p.origin.MHas(ctx, p.addAll(keys))
	if err != nil {
		return nil, err
	}

	return stripKeys(res, p.prefix), nil
}

func (p *Prefixed[V]) MGet(ctx context.Context, keys []string) (map[string]V, error) {
	res, err := p.origin.MGet(ctx, p.addAll(keys))
	if err != nil {
		return nil, err
	}

	return stripKeys(res, p.prefix), nil
}

func (p *Prefixed[V]) MSet(ctx context.Context, values map[string]V, ttl time.Duration) error {
	return p.origin.MSet(ctx, addKeys(values, p.prefix), ttl)
}

func (p *Prefixed[V]) MSetIfAbsent(ctx context.Context, values map[string]V, ttl time.Duration) error {
	return p.origin.MSetIfAbsent(ctx, addKeys(values, p.prefix), ttl)
}

func (p *Prefixed[V]) MRemove(ctx context.Context, keys []string) error {
	return p.origin.MRemove(ctx, p.addAll(keys))
}

func (p *Prefixed[V]) Load(ctx context.Context, key string, fn LoadFn[V], opts ...LoadOption) (V, error) {
	return p.origin.Load(ctx, p.prefix+key, fn, opts...)
}

func (p *Prefixed[V]) MLoad(ctx context.Context, keys []string, fn MLoadFn[V], opts ...LoadOption) (map[string]V, error) {
	res, err := p.origin.MLoad(ctx, p.addAll(keys), func(ctx context.Context, missing []string) (map[string]V, error) {
		loaded, err := fn(ctx, p.stripAll(missing))
		if err != nil {
			return nil, err
		}

		return addKeys(loaded, p.prefix), nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	return stripKeys(res, p.prefix), nil
}

func (p *Prefixed[V]) addAll(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = p.prefix + k
	}

	return out
}

func (p *Prefixed[V]) stripAll(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = strings.TrimPrefix(k, p.prefix)
	}

	return out
}

func addKeys[T any](m map[string]T, prefix string) map[string]T {
	out := make(map[string]T, len(m))
	for k, v := range m {
		out[prefix+k] = v
	}

	return out
}

func stripKeys[T any](m map[string]T, prefix string) map[string]T {
	out := make(map[string]T, len(m))
	for k, v := range m {
		out[strings.TrimPrefix(k, prefix)] = v
	}

	return out
}
