package collection

import (
	"context"
)

// CacheElement wraps every object kept in the object cache.
// Timestamp is the Unix millisecond instant the value was fetched from the source.
type CacheElement[V any] struct {
	Timestamp int64 `msgpack:"ts" cbor:"ts" json:"ts"`
	Value     V     `msgpack:"dt" cbor:"dt" json:"dt"`
}

// ListElement is one cached answer to one list filter. Meta is typed so a
// cached entry decodes into the same Go type the list loader returned.
type ListElement[M any] struct {
	Timestamp int64    `msgpack:"ts" cbor:"ts" json:"ts"`
	IDs       []string `msgpack:"ids" cbor:"ids" json:"ids"`
	Meta      M        `msgpack:"meta" cbor:"meta" json:"meta"`
}

type ListData[V, M any] struct {
	Items []V
	Meta  M
}

// NoMeta is the meta type of collections whose lists carry no metadata.
type NoMeta = struct{}

type IDExtractor[V any] func(V) string

// LoadOneFn returns false when the id does not exist in the source.
type LoadOneFn[V any] func(ctx context.Context, id string) (V, bool, error)

// LoadFewFn omits unknown ids from the returned map.
type LoadFewFn[V any] func(ctx context.Context, ids []string) (map[string]V, error)

// LoadFewSliceFn returns records in any order; they are keyed with the IDExtractor.
type LoadFewSliceFn[V any] func(ctx context.Context, ids []string) ([]V, error)

type LoadListFn[V, F any] func(ctx context.Context, filter F) ([]V, error)

type LoadListWithMetaFn[V, F, M any] func(ctx context.Context, filter F) (ListData[V, M], error)

type InvalidationTagsFn[F any] func(filter F) []string

// FilterKeyFn turns a list filter into a list cache key.
type FilterKeyFn[F any] func(filter F) (string, error)
