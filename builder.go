package collection

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/skynet2/collection/cache"
)

const (
	DefaultTTL       = 5 * time.Minute
	DefaultBatchWait = time.Millisecond
)

// Key prefixes used when caches are derived from a shared store.
const (
	ObjectCachePrefix      = "o:"
	ListCachePrefix        = "l:"
	InvalidatorCachePrefix = "i:"
)

type Builder[V any] struct {
	extractID    IDExtractor[V]
	loadOne      LoadOneFn[V]
	loadFew      LoadFewFn[V]
	loadFewSlice LoadFewSliceFn[V]
	objectCache  cache.Cache[CacheElement[V]]
	store        cache.Store
	ttl          time.Duration
	batchWait    time.Duration
	fastWrite    bool
	clock        func() time.Time
}

// NewBuilder starts a Collection setup. extractID may be nil for collections
// built with WithLoadOne or WithLoadFew only.
func NewBuilder[V any](extractID IDExtractor[V]) *Builder[V] {
	return &Builder[V]{
		extractID: extractID,
		ttl:       DefaultTTL,
		batchWait: DefaultBatchWait,
		fastWrite: true,
		clock:     time.Now,
	}
}

func (b *Builder[V]) WithLoadOne(fn LoadOneFn[V]) *Builder[V] {
	b.loadOne = fn

	return b
}

func (b *Builder[V]) WithLoadFew(fn LoadFewFn[V]) *Builder[V] {
	b.loadFew = fn

	return b
}

func (b *Builder[V]) WithLoadFewSlice(fn LoadFewSliceFn[V]) *Builder[V] {
	b.loadFewSlice = fn

	return b
}

// WithObjectCache takes precedence over a cache derived from WithStore.
func (b *Builder[V]) WithObjectCache(c cache.Cache[CacheElement[V]]) *Builder[V] {
	b.objectCache = c

	return b
}

// WithStore shares one byte store between the object, list and invalidator
// caches, each under its own key prefix. Values are msgpack encoded.
func (b *Builder[V]) WithStore(store cache.Store) *Builder[V] {
	b.store = store

	return b
}

func (b *Builder[V]) WithTtl(ttl time.Duration) *Builder[V] {
	b.ttl = ttl

	return b
}

func (b *Builder[V]) WithBatchWait(wait time.Duration) *Builder[V] {
	b.batchWait = wait

	return b
}

// WithFastWrite controls whether batch results are written to the object cache
// in background. Failed background writes are only logged.
func (b *Builder[V]) WithFastWrite(fast bool) *Builder[V] {
	b.fastWrite = fast

	return b
}

func (b *Builder[V]) WithClock(clock func() time.Time) *Builder[V] {
	if clock != nil {
		b.clock = clock
	}

	return b
}

func (b *Builder[V]) Build() (*Collection[V], error) {
	loadFew, err := b.resolveLoader()
	if err != nil {
		return nil, err
	}

	objectCache := b.objectCache
	if objectCache == nil && b.store != nil {
		objectCache = sharedCache[CacheElement[V]](b.store, ObjectCachePrefix)
	}

	loadOpts := []cache.LoadOption{cache.TTL(b.ttl)}
	if b.fastWrite {
		loadOpts = append(loadOpts, cache.Fast())
	}

	return &Collection[V]{
		extractID:   b.extractID,
		loadFew:     loadFew,
		objectCache: objectCache,
		ttl:         b.ttl,
		batchWait:   b.batchWait,
		loadOpts:    loadOpts,
		now:         b.clock,
		memo:        map[string]*result[V]{},
	}, nil
}

// resolveLoader normalizes the configured loader into one LoadFewFn.
// Multi loaders win over the single one.
func (b *Builder[V]) resolveLoader() (LoadFewFn[V], error) {
	switch {
	case b.loadFew != nil:
		return b.loadFew, nil
	case b.loadFewSlice != nil:
		if b.extractID == nil {
			return nil, errors.Wrap(ErrConfiguration, "slice loader requires an id extractor")
		}

		return sliceLoader(b.loadFewSlice, b.extractID), nil
	case b.loadOne != nil:
		return fanInLoader(b.loadOne), nil
	default:
		return nil, errors.Wrap(ErrConfiguration, "load one or load few has to be defined")
	}
}

func sharedCache[T any](store cache.Store, prefix string) cache.Cache[T] {
	return cache.WithPrefix[T](prefix, cache.New[T](cache.NewEncoded[T](store, nil)))
}

func sliceLoader[V any](load LoadFewSliceFn[V], extractID IDExtractor[V]) LoadFewFn[V] {
	return func(ctx context.Context, ids []string) (map[string]V, error) {
		items, err := load(ctx, ids)
		if err != nil {
			return nil, err
		}

		return Index(items, extractID), nil
	}
}

// fanInLoader calls loadOne for every id concurrently. The first failure fails the batch.
func fanInLoader[V any](loadOne LoadOneFn[V]) LoadFewFn[V] {
	return func(ctx context.Context, ids []string) (map[string]V, error) {
		values := make([]V, len(ids))
		found := make([]bool, len(ids))

		g, gCtx := errgroup.WithContext(ctx)

		for i, id := range ids {
			i, id := i, id
			g.Go(func() error {
				v, ok, err := loadOne(gCtx, id)
				if err != nil {
					return err
				}

				values[i], found[i] = v, ok

				return nil
			})
		}

		if err := g.Wait(); err != nil {
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
}
