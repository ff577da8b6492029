package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type cache[V any] struct {
	Backend[V]
}

// New derives the complete Cache API from a Backend. Batch operations fan out
// over the single-key primitives unless the backend implements BatchBackend.
// Passing a value that already is a Cache returns it unchanged.
func New[V any](backend Backend[V]) Cache[V] {
	if c, ok := backend.(Cache[V]); ok {
		return c
	}

	return &cache[V]{Backend: backend}
}

func (c *cache[V]) Has(ctx context.Context, key string) (bool, error) {
	if h, ok := c.Backend.(hasBackend); ok {
		return h.Has(ctx, key)
	}

	_, found, err := c.Get(ctx, key)

	return found, err
}

func (c *cache[V]) MHas(ctx context.Context, keys []string) (map[string]bool, error) {
	found := make([]bool, len(keys))

	err := fanOut(keys, func(i int, key string) error {
		ok, err := c.Has(ctx, key)
		found[i] = ok

		return err
	})
	if err != nil {
		return nil, err
	}

	res := make(map[string]bool, len(keys))
	for i, key := range keys {
		res[key] = found[i]
	}

	return res, nil
}

func (c *cache[V]) MGet(ctx context.Context, keys []string) (map[string]V, error) {
	if b, ok := c.Backend.(BatchBackend[V]); ok {
		return b.MGet(ctx, keys)
	}

	var mu sync.Mutex
	res := make(map[string]V, len(keys))

	err := fanOut(keys, func(_ int, key string) error {
		v, found, err := c.Get(ctx, key)
		if err != nil || !found {
			return err
		}

		mu.Lock()
		res[key] = v
		mu.Unlock()

		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

func (c *cache[V]) MSet(ctx context.Context, values map[string]V, ttl time.Duration) error {
	if len(values) == 0 {
		return nil
	}

	if b, ok := c.Backend.(BatchBackend[V]); ok {
		return b.MSet(ctx, values, ttl)
	}

	return fanOut(mapKeys(values), func(_ int, key string) error {
		return c.Set(ctx, key, values[key], ttl)
	})
}

func (c *cache[V]) MSetIfAbsent(ctx context.Context, values map[string]V, ttl time.Duration) error {
	return fanOut(mapKeys(values), func(_ int, key string) error {
		return c.SetIfAbsent(ctx, key, values[key], ttl)
	})
}

func (c *cache[V]) MRemove(ctx context.Context, keys []string) error {
	return fanOut(keys, func(_ int, key string) error {
		return c.Remove(ctx, key)
	})
}

func (c *cache[V]) Load(ctx context.Context, key string, fn LoadFn[V], opts ...LoadOption) (V, error) {
	o := applyLoadOptions(opts)

	var zero V

	cached, found, err := c.Get(ctx, key)
	if err != nil {
		return zero, err
	}

	if found {
		return cached, nil
	}

	loaded, err := fn(ctx)
	if err != nil {
		return zero, err
	}

	store := func(ctx context.Context) error {
		return c.Set(ctx, key, loaded, o.ttl)
	}

	if err = c.write(ctx, o, store); err != nil {
		return zero, err
	}

	return loaded, nil
}

func (c *cache[V]) MLoad(ctx context.Context, keys []string, fn MLoadFn[V], opts ...LoadOption) (map[string]V, error) {
	o := applyLoadOptions(opts)

	cached, err := c.MGet(ctx, keys)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, key := range keys {
		if _, ok := cached[key]; !ok {
			missing = append(missing, key)
		}
	}

	if len(missing) == 0 {
		return cached, nil
	}

	fromSource, err := fn(ctx, missing)
	if err != nil {
		return nil, err
	}

	store := func(ctx context.Context) error {
		return c.MSet(ctx, fromSource, o.ttl)
	}

	if err = c.write(ctx, o, store); err != nil {
		return nil, err
	}

	for k, v := range fromSource {
		cached[k] = v
	}

	return cached, nil
}

// write runs store inline, or detached from the caller when fast is set.
func (c *cache[V]) write(ctx context.Context, o loadOptions, store func(ctx context.Context) error) error {
	if !o.fast {
		return store(ctx)
	}

	go func() {
		if err := store(context.WithoutCancel(ctx)); err != nil { // coz async
			zerolog.Ctx(ctx).Err(err).Msg("fast cache write failed")
		}
	}()

	return nil
}

func applyLoadOptions(opts []LoadOption) loadOptions {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// fanOut runs fn for every key concurrently and waits for all of them.
// The first error wins.
func fanOut(keys []string, fn func(i int, key string) error) error {
	var g errgroup.Group

	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			return fn(i, key)
		})
	}

	return g.Wait()
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	return keys
}
