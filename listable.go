package collection

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/skynet2/collection/cache"
)

// ListableCollection adds filtered lists on top of Collection. A cached list is
// reused only while it is coherent with the object cache and its invalidation tags.
type ListableCollection[V, F, M any] struct {
	*Collection[V]

	loadList         LoadListWithMetaFn[V, F, M]
	listCache        cache.Cache[ListElement[M]]
	invalidatorCache cache.Cache[int64]
	invalidationTags InvalidationTagsFn[F]
	coward           bool
	filterKey        FilterKeyFn[F]

	loads singleflight.Group
}

type ListableBuilder[V, F, M any] struct {
	base             *Builder[V]
	loadList         LoadListWithMetaFn[V, F, M]
	listCache        cache.Cache[ListElement[M]]
	invalidatorCache cache.Cache[int64]
	invalidationTags InvalidationTagsFn[F]
	coward           bool
	filterKey        FilterKeyFn[F]
}

// NewListableBuilder extends a Collection setup with list loading. The object
// loader, object cache and shared store are taken from base.
func NewListableBuilder[V, F, M any](base *Builder[V]) *ListableBuilder[V, F, M] {
	return &ListableBuilder[V, F, M]{
		base:   base,
		coward: true,
	}
}

func (b *ListableBuilder[V, F, M]) WithLoadList(fn LoadListFn[V, F]) *ListableBuilder[V, F, M] {
	if fn == nil {
		b.loadList = nil

		return b
	}

	b.loadList = func(ctx context.Context, filter F) (ListData[V, M], error) {
		items, err := fn(ctx, filter)
		if err != nil {
			return ListData[V, M]{}, err
		}

		return ListData[V, M]{Items: items}, nil
	}

	return b
}

func (b *ListableBuilder[V, F, M]) WithLoadListWithMeta(fn LoadListWithMetaFn[V, F, M]) *ListableBuilder[V, F, M] {
	b.loadList = fn

	return b
}

func (b *ListableBuilder[V, F, M]) WithListCache(c cache.Cache[ListElement[M]]) *ListableBuilder[V, F, M] {
	b.listCache = c

	return b
}

func (b *ListableBuilder[V, F, M]) WithInvalidatorCache(c cache.Cache[int64]) *ListableBuilder[V, F, M] {
	b.invalidatorCache = c

	return b
}

func (b *ListableBuilder[V, F, M]) WithInvalidationTags(fn InvalidationTagsFn[F]) *ListableBuilder[V, F, M] {
	b.invalidationTags = fn

	return b
}

// WithCowardListCache(false) trusts a cached list whenever all its objects can
// be loaded, ignoring how fresh they are relative to the list.
func (b *ListableBuilder[V, F, M]) WithCowardListCache(coward bool) *ListableBuilder[V, F, M] {
	b.coward = coward

	return b
}

// WithFilterKey replaces the default filter hashing (SHA-256 of canonical CBOR).
func (b *ListableBuilder[V, F, M]) WithFilterKey(fn FilterKeyFn[F]) *ListableBuilder[V, F, M] {
	b.filterKey = fn

	return b
}

func (b *ListableBuilder[V, F, M]) Build() (*ListableCollection[V, F, M], error) {
	if b.loadList == nil {
		return nil, errors.Wrap(ErrConfiguration, "list loader has to be defined")
	}

	if b.base.extractID == nil {
		return nil, errors.Wrap(ErrConfiguration, "listable collection requires an id extractor")
	}

	col, err := b.base.Build()
	if err != nil {
		return nil, err
	}

	listCache := b.listCache
	if listCache == nil && b.base.store != nil {
		listCache = sharedCache[ListElement[M]](b.base.store, ListCachePrefix)
	}

	invalidatorCache := b.invalidatorCache
	if invalidatorCache == nil && b.base.store != nil {
		invalidatorCache = sharedCache[int64](b.base.store, InvalidatorCachePrefix)
	}

	if listCache != nil && col.objectCache == nil {
		return nil, errors.Wrap(ErrConfiguration, "list cache requires an object cache")
	}

	if listCache != nil && b.invalidationTags != nil && invalidatorCache == nil {
		return nil, errors.Wrap(ErrConfiguration, "invalidation tags require an invalidator cache")
	}

	filterKey := b.filterKey
	if filterKey == nil {
		if filterKey, err = newFilterKey[F](); err != nil {
			return nil, configurationError(err)
		}
	}

	return &ListableCollection[V, F, M]{
		Collection:       col,
		loadList:         b.loadList,
		listCache:        listCache,
		invalidatorCache: invalidatorCache,
		invalidationTags: b.invalidationTags,
		coward:           b.coward,
		filterKey:        filterKey,
	}, nil
}

func (l *ListableCollection[V, F, M]) GetList(ctx context.Context, filter F) ([]V, error) {
	data, err := l.GetListWithMeta(ctx, filter)
	if err != nil {
		return nil, err
	}

	return data.Items, nil
}

// GetListWithMeta serves the list from the list cache when the cached entry is
// still coherent, otherwise it calls the list loader and refreshes the caches.
// Concurrent misses for one filter share a single loader call.
func (l *ListableCollection[V, F, M]) GetListWithMeta(ctx context.Context, filter F) (ListData[V, M], error) {
	if l.listCache == nil {
		data, err := l.loadList(ctx, filter)
		if err != nil {
			return ListData[V, M]{}, err
		}

		l.memoize(data.Items)

		return normalized(data), nil
	}

	startedAt := l.now().UnixMilli()

	key, err := l.filterKey(filter)
	if err != nil {
		return ListData[V, M]{}, err
	}

	var tags []string
	if l.invalidationTags != nil {
		tags = l.invalidationTags(filter)
	}

	data, hit, err := l.fromCache(ctx, key, tags)
	if err != nil {
		return ListData[V, M]{}, err
	}

	if !hit {
		ch := l.loads.DoChan(key, func() (any, error) {
			return l.reload(context.WithoutCancel(ctx), key, filter, tags, startedAt)
		})

		select {
		case res := <-ch:
			if res.Err != nil {
				return ListData[V, M]{}, res.Err
			}

			data = res.Val.(ListData[V, M])
		case <-ctx.Done():
			return ListData[V, M]{}, ctx.Err()
		}
	}

	l.memoize(data.Items)

	return normalized(data), nil
}

// normalized makes an empty list nil, whether it came from the loader or the list cache.
func normalized[V, M any](data ListData[V, M]) ListData[V, M] {
	if len(data.Items) == 0 {
		data.Items = nil
	}

	return data
}

// InvalidateCacheTag drops tag baselines. Every list cached under one of the
// tags is reloaded on next access, and the next list write sets a new baseline.
func (l *ListableCollection[V, F, M]) InvalidateCacheTag(ctx context.Context, tags ...string) error {
	if l.invalidatorCache == nil || len(tags) == 0 {
		return nil
	}

	if len(tags) == 1 {
		return l.invalidatorCache.Remove(ctx, tags[0])
	}

	return l.invalidatorCache.MRemove(ctx, tags)
}

func (l *ListableCollection[V, F, M]) fromCache(ctx context.Context, key string, tags []string) (ListData[V, M], bool, error) {
	entry, found, err := l.listCache.Get(ctx, key)
	if err != nil || !found {
		return ListData[V, M]{}, false, err
	}

	if len(tags) > 0 {
		valid, err := l.checkInvalidators(ctx, tags, entry.Timestamp)
		if err != nil || !valid {
			return ListData[V, M]{}, false, err
		}
	}

	var items []V
	if l.coward {
		items, found, err = l.cachedObjects(ctx, entry)
	} else {
		items, found, err = l.loadedObjects(ctx, entry)
	}

	if err != nil || !found {
		return ListData[V, M]{}, false, err
	}

	return ListData[V, M]{Items: items, Meta: entry.Meta}, true, nil
}

// cachedObjects reads the list objects from the object cache only. Any missing
// object, or one refreshed after the list was cached, rejects the whole list.
func (l *ListableCollection[V, F, M]) cachedObjects(ctx context.Context, entry ListElement[M]) ([]V, bool, error) {
	objects, err := l.objectCache.MGet(ctx, entry.IDs)
	if err != nil {
		return nil, false, err
	}

	items := make([]V, 0, len(entry.IDs))
	for _, id := range entry.IDs {
		obj, ok := objects[id]
		if !ok || obj.Timestamp > entry.Timestamp {
			return nil, false, nil
		}

		items = append(items, obj.Value)
	}

	return items, true, nil
}

// loadedObjects resolves the list objects through the regular batch path.
// One unknown id rejects the whole list.
func (l *ListableCollection[V, F, M]) loadedObjects(ctx context.Context, entry ListElement[M]) ([]V, bool, error) {
	values, found, err := l.getFew(ctx, entry.IDs)
	if err != nil {
		return nil, false, err
	}

	for _, ok := range found {
		if !ok {
			return nil, false, nil
		}
	}

	return values, true, nil
}

// checkInvalidators accepts a list only if every tag has a baseline that is not
// newer than the list. A missing baseline means the tag was invalidated.
func (l *ListableCollection[V, F, M]) checkInvalidators(ctx context.Context, tags []string, stamp int64) (bool, error) {
	baselines, err := l.invalidatorCache.MGet(ctx, tags)
	if err != nil {
		return false, err
	}

	for _, tag := range tags {
		baseline, ok := baselines[tag]
		if !ok || baseline > stamp {
			return false, nil
		}
	}

	return true, nil
}

func (l *ListableCollection[V, F, M]) reload(
	ctx context.Context,
	key string,
	filter F,
	tags []string,
	stamp int64,
) (ListData[V, M], error) {
	data, err := l.loadList(ctx, filter)
	if err != nil {
		return ListData[V, M]{}, err
	}

	ids := make([]string, len(data.Items))
	objects := make(map[string]CacheElement[V], len(data.Items))

	for i, item := range data.Items {
		id := l.extractID(item)
		ids[i] = id
		objects[id] = CacheElement[V]{Timestamp: stamp, Value: item}
	}

	// never overwrite objects that may be fresher than this list
	if err = l.objectCache.MSetIfAbsent(ctx, objects, l.ttl); err != nil {
		return ListData[V, M]{}, err
	}

	err = l.listCache.Set(ctx, key, ListElement[M]{
		Timestamp: stamp,
		IDs:       ids,
		Meta:      data.Meta,
	}, l.ttl)
	if err != nil {
		return ListData[V, M]{}, err
	}

	if len(tags) > 0 {
		baselines := make(map[string]int64, len(tags))
		for _, tag := range tags {
			baselines[tag] = stamp
		}

		// a baseline only moves forward by being removed
		if err = l.invalidatorCache.MSetIfAbsent(ctx, baselines, l.ttl); err != nil {
			return ListData[V, M]{}, err
		}
	}

	return data, nil
}
