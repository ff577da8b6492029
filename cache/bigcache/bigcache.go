package bigcache

import (
	"context"
	"sync"
	"time"

	bc "github.com/allegro/bigcache/v3"
	"github.com/pkg/errors"

	"github.com/skynet2/collection/cache"
)

type Config struct {
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

// Store keeps bytes in a BigCache instance.
// BigCache has no per-entry TTL, every entry lives for LifeWindow.
type Store struct {
	c *bc.BigCache
	// writers hold mu so SetNX can check and set atomically
	mu sync.Mutex
}

var _ cache.Store = (*Store)(nil)

func New(ctx context.Context, cfg Config) (*Store, error) {
	conf := bc.DefaultConfig(cfg.LifeWindow)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}

	c, err := bc.New(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "can not create bigcache")
	}

	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := s.c.Get(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, errors.WithStack(err)
	}

	return b, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return errors.WithStack(s.c.Set(key, value))
}

func (s *Store) SetNX(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.c.Get(key)
	if err == nil {
		return nil
	}

	if !errors.Is(err, bc.ErrEntryNotFound) {
		return errors.WithStack(err)
	}

	return errors.WithStack(s.c.Set(key, value))
}

func (s *Store) Delete(_ context.Context, key string) error {
	if err := s.c.Delete(key); err != nil && !errors.Is(err, bc.ErrEntryNotFound) {
		return errors.WithStack(err)
	}

	return nil
}

func (s *Store) Close() error {
	return s.c.Close()
}
