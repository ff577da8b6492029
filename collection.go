package collection

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/skynet2/collection/cache"
)

// Collection loads records by id. Requests made close together are merged into
// one loader call, and every loaded id is memoized for the collection lifetime
// unless it is cleared with ClearCache.
type Collection[V any] struct {
	extractID   IDExtractor[V]
	loadFew     LoadFewFn[V]
	objectCache cache.Cache[CacheElement[V]]
	ttl         time.Duration
	batchWait   time.Duration
	loadOpts    []cache.LoadOption
	now         func() time.Time

	mu    sync.Mutex
	memo  map[string]*result[V]
	query *multiQuery[V]
}

// GetOne returns false when the loader does not know id.
func (c *Collection[V]) GetOne(ctx context.Context, id string) (V, bool, error) {
	res, err := c.acquire(ctx, []string{id})
	if err != nil {
		var zero V
		return zero, false, err
	}

	return res[0].wait(ctx)
}

// GetFewAsArray keeps the order of ids. Unknown ids yield the zero value of V.
func (c *Collection[V]) GetFewAsArray(ctx context.Context, ids []string) ([]V, error) {
	values, _, err := c.getFew(ctx, ids)

	return values, err
}

// GetFewAsMap returns only the ids the loader knows.
func (c *Collection[V]) GetFewAsMap(ctx context.Context, ids []string) (map[string]V, error) {
	values, found, err := c.getFew(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := make(map[string]V, len(ids))
	for i, id := range ids {
		if found[i] {
			res[id] = values[i]
		}
	}

	return res, nil
}

// ClearCache drops ids from the object cache and from the memo. A pending batch
// that already holds one of the ids is detached, so the next request starts a
// new one instead of reusing its soon to be stale results.
func (c *Collection[V]) ClearCache(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	if c.objectCache != nil {
		var err error
		if len(ids) == 1 {
			err = c.objectCache.Remove(ctx, ids[0])
		} else {
			err = c.objectCache.MRemove(ctx, ids)
		}

		if err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range ids {
		delete(c.memo, id)
	}

	if c.query == nil {
		return nil
	}

	for _, id := range ids {
		if c.query.has(id) {
			zerolog.Ctx(ctx).Debug().Strs("ids", ids).Msg("batch detached by cache clear")
			c.query = nil

			break
		}
	}

	return nil
}

func (c *Collection[V]) getFew(ctx context.Context, ids []string) ([]V, []bool, error) {
	res, err := c.acquire(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	values := make([]V, len(ids))
	found := make([]bool, len(ids))

	for i, r := range res {
		if values[i], found[i], err = r.wait(ctx); err != nil {
			return nil, nil, err
		}
	}

	return values, found, nil
}

// acquire returns a handle per id, registering the ids that are not memoized
// yet with the current batch in one step.
func (c *Collection[V]) acquire(ctx context.Context, ids []string) ([]*result[V], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*result[V], len(ids))

	var missing []string
	seen := map[string]struct{}{}

	for i, id := range ids {
		if r, ok := c.memo[id]; ok {
			out[i] = r
			continue
		}

		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			missing = append(missing, id)
		}
	}

	if len(missing) == 0 {
		return out, nil
	}

	registered, err := c.register(ctx, missing)
	if err != nil {
		return nil, err
	}

	for i, id := range missing {
		c.memo[id] = registered[i]
	}

	for i, id := range ids {
		if out[i] == nil {
			out[i] = c.memo[id]
		}
	}

	return out, nil
}

// register must be called with mu held.
func (c *Collection[V]) register(ctx context.Context, ids []string) ([]*result[V], error) {
	if c.query == nil || c.query.isSent() {
		c.query = c.newQuery()
	}

	res, err := c.query.getFew(ctx, ids)
	if !errors.Is(err, ErrUsedAfterSend) {
		return res, err
	}

	// the window closed between the check and the registration. A fresh query
	// only arms its timer inside getFew, so it can not be sent before we register.
	c.query = c.newQuery()

	return c.query.getFew(ctx, ids)
}

func (c *Collection[V]) newQuery() *multiQuery[V] {
	return newMultiQuery(c.loadFew, c.objectCache, c.batchWait, c.now, c.loadOpts...)
}

// memoize stores already loaded items without replacing existing handles.
func (c *Collection[V]) memoize(items []V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range items {
		id := c.extractID(item)
		if _, ok := c.memo[id]; !ok {
			c.memo[id] = resolvedResult(item)
		}
	}
}
