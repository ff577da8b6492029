package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Encoded is a typed Backend on top of a byte Store.
type Encoded[V any] struct {
	store Store
	codec Codec[V]
}

// NewEncoded wraps store with codec. A nil codec means Msgpack.
func NewEncoded[V any](store Store, codec Codec[V]) *Encoded[V] {
	if codec == nil {
		codec = Msgpack[V]{}
	}

	return &Encoded[V]{
		store: store,
		codec: codec,
	}
}

func (e *Encoded[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V

	raw, found, err := e.store.Get(ctx, key)
	if err != nil || !found {
		return zero, false, err
	}

	v, ok := e.decode(ctx, key, raw)

	return v, ok, nil
}

func (e *Encoded[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	b, err := e.codec.Encode(value)
	if err != nil {
		return errors.Wrapf(err, "can not encode %q", key)
	}

	return e.store.Set(ctx, key, b, ttl)
}

func (e *Encoded[V]) SetIfAbsent(ctx context.Context, key string, value V, ttl time.Duration) error {
	b, err := e.codec.Encode(value)
	if err != nil {
		return errors.Wrapf(err, "can not encode %q", key)
	}

	return e.store.SetNX(ctx, key, b, ttl)
}

func (e *Encoded[V]) Remove(ctx context.Context, key string) error {
	return e.store.Delete(ctx, key)
}

func (e *Encoded[V]) MGet(ctx context.Context, keys []string) (map[string]V, error) {
	var raw map[string][]byte

	if bs, ok := e.store.(BatchStore); ok {
		var err error
		if raw, err = bs.MGet(ctx, keys); err != nil {
			return nil, err
		}
	} else {
		var mu sync.Mutex
		raw = make(map[string][]byte, len(keys))

		err := fanOut(keys, func(_ int, key string) error {
			b, found, err := e.store.Get(ctx, key)
			if err != nil || !found {
				return err
			}

			mu.Lock()
			raw[key] = b
			mu.Unlock()

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	res := make(map[string]V, len(raw))
	for k, b := range raw {
		if v, ok := e.decode(ctx, k, b); ok {
			res[k] = v
		}
	}

	return res, nil
}

func (e *Encoded[V]) MSet(ctx context.Context, values map[string]V, ttl time.Duration) error {
	encoded, err := e.encodeAll(values)
	if err != nil {
		return err
	}

	if bs, ok := e.store.(BatchStore); ok {
		return bs.MSet(ctx, encoded, ttl)
	}

	return fanOut(mapKeys(encoded), func(_ int, key string) error {
		return e.store.Set(ctx, key, encoded[key], ttl)
	})
}

func (e *Encoded[V]) encodeAll(values map[string]V) (map[string][]byte, error) {
	var multiErr error
	out := make(map[string][]byte, len(values))

	for k, v := range values {
		b, err := e.codec.Encode(v)
		if err != nil {
			multiErr = multierror.Append(multiErr, errors.Wrapf(err, "can not encode %q", k))
			continue
		}

		out[k] = b
	}

	if multiErr != nil {
		return nil, multiErr
	}

	return out, nil
}

// decode drops payloads that can not be decoded, so the next read reloads them.
func (e *Encoded[V]) decode(ctx context.Context, key string, raw []byte) (V, bool) {
	v, err := e.codec.Decode(raw)
	if err == nil {
		return v, true
	}

	zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("can not decode cached value, removing")

	if delErr := e.store.Delete(ctx, key); delErr != nil {
		zerolog.Ctx(ctx).Err(delErr).Send()
	}

	var zero V

	return zero, false
}
