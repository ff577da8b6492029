package collection

import (
	"context"
	"sync"
	"time"

	"github.com/skynet2/collection/cache"
)

// result is the handle of one id: pending until done is closed.
type result[V any] struct {
	done  chan struct{}
	value V
	found bool
	err   error
}

func newResult[V any]() *result[V] {
	return &result[V]{done: make(chan struct{})}
}

func resolvedResult[V any](value V) *result[V] {
	r := &result[V]{
		done:  make(chan struct{}),
		value: value,
		found: true,
	}
	close(r.done)

	return r
}

// wait gives up when ctx is done; the batch itself keeps running.
func (r *result[V]) wait(ctx context.Context) (V, bool, error) {
	select {
	case <-r.done:
		return r.value, r.found, r.err
	case <-ctx.Done():
		var zero V
		return zero, false, ctx.Err()
	}
}

// multiQuery collects ids for one batching window and loads them with a single
// loader call. It is single use: once sent, registering more ids fails.
type multiQuery[V any] struct {
	loadFew   LoadFewFn[V]
	cache     cache.Cache[CacheElement[V]]
	loadOpts  []cache.LoadOption
	batchWait time.Duration
	now       func() time.Time

	mu      sync.Mutex
	touched bool
	sent    bool
	ctx     context.Context
	results map[string]*result[V]
}

func newMultiQuery[V any](
	loadFew LoadFewFn[V],
	objectCache cache.Cache[CacheElement[V]],
	batchWait time.Duration,
	now func() time.Time,
	loadOpts ...cache.LoadOption,
) *multiQuery[V] {
	return &multiQuery[V]{
		loadFew:   loadFew,
		cache:     objectCache,
		loadOpts:  loadOpts,
		batchWait: batchWait,
		now:       now,
		results:   map[string]*result[V]{},
	}
}

func (q *multiQuery[V]) getOne(ctx context.Context, id string) (*result[V], error) {
	res, err := q.getFew(ctx, []string{id})
	if err != nil {
		return nil, err
	}

	return res[0], nil
}

// getFew registers all ids at once, so they always land in the same window.
// The first registration arms the timer; the batch runs on the first caller's
// context with its cancellation stripped.
func (q *multiQuery[V]) getFew(ctx context.Context, ids []string) ([]*result[V], error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.sent {
		return nil, ErrUsedAfterSend
	}

	if !q.touched {
		q.touched = true
		q.ctx = context.WithoutCancel(ctx)
		time.AfterFunc(q.batchWait, q.load)
	}

	out := make([]*result[V], len(ids))
	for i, id := range ids {
		r, ok := q.results[id]
		if !ok {
			r = newResult[V]()
			q.results[id] = r
		}

		out[i] = r
	}

	return out, nil
}

func (q *multiQuery[V]) has(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	_, ok := q.results[id]

	return ok
}

func (q *multiQuery[V]) isSent() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.sent
}

func (q *multiQuery[V]) load() {
	q.mu.Lock()
	q.sent = true
	ctx := q.ctx
	q.mu.Unlock()

	// results is frozen once sent is set
	ids := make([]string, 0, len(q.results))
	for id := range q.results {
		ids = append(ids, id)
	}

	values, err := q.fetch(ctx, ids)

	for id, r := range q.results {
		if err != nil {
			r.err = err
		} else {
			r.value, r.found = values[id]
		}

		close(r.done)
	}
}

func (q *multiQuery[V]) fetch(ctx context.Context, ids []string) (map[string]V, error) {
	if q.cache == nil {
		return q.loadFew(ctx, ids)
	}

	fetchedAt := q.now().UnixMilli()

	elements, err := q.cache.MLoad(ctx, ids, func(ctx context.Context, missing []string) (map[string]CacheElement[V], error) {
		loaded, err := q.loadFew(ctx, missing)
		if err != nil {
			return nil, err
		}

		wrapped := make(map[string]CacheElement[V], len(loaded))
		for id, v := range loaded {
			wrapped[id] = CacheElement[V]{Timestamp: fetchedAt, Value: v}
		}

		return wrapped, nil
	}, q.loadOpts...)
	if err != nil {
		return nil, err
	}

	values := make(map[string]V, len(elements))
	for id, el := range elements {
		values[id] = el.Value
	}

	return values, nil
}
