package ristretto

import (
	"context"
	"sync"
	"time"

	rc "github.com/dgraph-io/ristretto"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/skynet2/collection/cache"
)

type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
}

// Store keeps bytes in a ristretto cache. Every entry costs its length in bytes.
// Ristretto may refuse a write under pressure; a refused write is not an error,
// the entry is simply not cached.
type Store struct {
	c *rc.Cache
	// writers hold mu so SetNX can check and set atomically
	mu sync.Mutex
}

var _ cache.Store = (*Store)(nil)

func New(cfg Config) (*Store, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}

	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, errors.Wrap(err, "can not create ristretto cache")
	}

	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}

	b, _ := v.([]byte)
	if b == nil {
		s.c.Del(key)
		return nil, false, nil
	}

	return b, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.set(ctx, key, value, ttl)

	return nil
}

func (s *Store) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.c.Get(key); ok {
		return nil
	}

	s.set(ctx, key, value, ttl)

	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.c.Del(key)
	s.c.Wait()

	return nil
}

func (s *Store) Close() {
	s.c.Close()
}

// Metrics exposes ristretto counters; nil unless Config.Metrics was set.
func (s *Store) Metrics() *rc.Metrics { return s.c.Metrics }

func (s *Store) set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl < 0 {
		ttl = 0
	}

	b := append([]byte(nil), value...)

	if !s.c.SetWithTTL(key, b, int64(len(b))+1, ttl) {
		zerolog.Ctx(ctx).Debug().Str("key", key).Msg("ristretto rejected write")
		return
	}

	// writes are buffered, wait so the next Get observes this one
	s.c.Wait()
}
