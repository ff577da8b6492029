package redis

import (
	"context"
	"time"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/skynet2/collection/cache"
)

// DefaultChunkSize is the number of keys sent in one MGET.
const DefaultChunkSize = 100

type Store struct {
	client    goredis.Cmdable
	chunkSize int
}

var _ cache.BatchStore = (*Store)(nil)

func NewStore(client goredis.Cmdable) *Store {
	return &Store{
		client:    client,
		chunkSize: DefaultChunkSize,
	}
}

func (r *Store) WithChunkSize(size int) *Store {
	if size > 0 {
		r.chunkSize = size
	}

	return r
}

func (r *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	bts, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}

		return nil, false, errors.WithStack(err)
	}

	return bts, true, nil
}

func (r *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}

	return errors.WithStack(r.client.Set(ctx, key, value, ttl).Err())
}

func (r *Store) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}

	return errors.WithStack(r.client.SetNX(ctx, key, value, ttl).Err())
}

func (r *Store) Delete(ctx context.Context, key string) error {
	return errors.WithStack(r.client.Del(ctx, key).Err())
}

func (r *Store) chunkBy(items []string, chunkSize int) (chunks [][]string) {
	for chunkSize < len(items) {
		items, chunks = items[chunkSize:], append(chunks, items[0:chunkSize:chunkSize])
	}
	return append(chunks, items)
}

type chunkResponse struct {
	Error   error
	Results map[string][]byte
}

// MGet splits keys into chunks and queries them concurrently.
// Any failed chunk fails the whole call.
func (r *Store) MGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	results := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return results, nil
	}

	var respChannels []chan chunkResponse

	for _, chunk := range r.chunkBy(keys, r.chunkSize) {
		chunk := chunk
		ch := make(chan chunkResponse, 1)
		respChannels = append(respChannels, ch)

		go func() {
			defer close(ch)

			vals, err := r.client.MGet(ctx, chunk...).Result()
			if err != nil {
				ch <- chunkResponse{Error: errors.WithStack(err)}
				return
			}

			found := make(map[string][]byte, len(chunk))

			for i, v := range vals {
				switch val := v.(type) {
				case []byte:
					found[chunk[i]] = val
				case string:
					found[chunk[i]] = []byte(val)
				}
			}

			ch <- chunkResponse{Results: found}
		}()
	}

	var firstErr error

	for _, ch := range respChannels {
		resp := <-ch

		if resp.Error != nil {
			if firstErr == nil {
				firstErr = resp.Error
			}
			continue
		}

		for k, v := range resp.Results {
			results[k] = v
		}
	}

	if firstErr != nil {
		return nil, firstErr
	}

	return results, nil
}

func (r *Store) MSet(ctx context.Context, values map[string][]byte, ttl time.Duration) error {
	if len(values) == 0 {
		return nil
	}

	if ttl < 0 {
		ttl = 0
	}

	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, k, v, ttl)
		}

		return nil
	})

	return errors.WithStack(err)
}
