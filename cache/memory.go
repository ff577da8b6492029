package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	value    []byte
	expireAt time.Time // zero means no expiry
}

func (i memoryItem) expired(now time.Time) bool {
	return !i.expireAt.IsZero() && now.After(i.expireAt)
}

// MemoryStore is an in-process byte Store with per-key TTL.
// Expired entries are dropped lazily on access.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryItem
}

var _ BatchStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]memoryItem{}}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	item, ok := m.items[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	if item.expired(time.Now()) {
		m.mu.Lock()
		if cur, ok := m.items[key]; ok && cur.expired(time.Now()) {
			delete(m.items, key)
		}
		m.mu.Unlock()

		return nil, false, nil
	}

	return item.value, true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	m.items[key] = newMemoryItem(value, ttl)
	m.mu.Unlock()

	return nil
}

func (m *MemoryStore) SetNX(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cur, ok := m.items[key]; ok && !cur.expired(time.Now()) {
		return nil
	}

	m.items[key] = newMemoryItem(value, ttl)

	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()

	return nil
}

func (m *MemoryStore) MGet(_ context.Context, keys []string) (map[string][]byte, error) {
	now := time.Now()
	res := make(map[string][]byte, len(keys))

	m.mu.RLock()
	for _, key := range keys {
		if item, ok := m.items[key]; ok && !item.expired(now) {
			res[key] = item.value
		}
	}
	m.mu.RUnlock()

	return res, nil
}

func (m *MemoryStore) MSet(_ context.Context, values map[string][]byte, ttl time.Duration) error {
	m.mu.Lock()
	for k, v := range values {
		m.items[k] = newMemoryItem(v, ttl)
	}
	m.mu.Unlock()

	return nil
}

// Len reports the number of stored entries, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.items)
}

// Flush drops every entry.
func (m *MemoryStore) Flush() {
	m.mu.Lock()
	m.items = map[string]memoryItem{}
	m.mu.Unlock()
}

func newMemoryItem(value []byte, ttl time.Duration) memoryItem {
	item := memoryItem{value: append([]byte(nil), value...)}
	if ttl > 0 {
		item.expireAt = time.Now().Add(ttl)
	}

	return item
}
