package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	shortTTL           = 50 * time.Millisecond
	longerThanShortTTL = 100 * time.Millisecond
)

func TestMemoryStoreGetSetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	_, found, err := m.Get(ctx, "a")
	assert.Nil(t, err)
	assert.False(t, found)

	value := []byte("55")
	require.Nil(t, m.Set(ctx, "a", value, 0))
	value[0] = 'x'

	b, found, err := m.Get(ctx, "a")
	assert.Nil(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("55"), b)

	require.Nil(t, m.Delete(ctx, "a"))

	_, found, err = m.Get(ctx, "a")
	assert.Nil(t, err)
	assert.False(t, found)
}

func TestMemoryStoreSetNX(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	require.Nil(t, m.SetNX(ctx, "a", []byte("1"), 0))
	require.Nil(t, m.SetNX(ctx, "a", []byte("2"), 0))

	b, _, err := m.Get(ctx, "a")
	assert.Nil(t, err)
	assert.Equal(t, []byte("1"), b)
}

// TestMemoryStoreExpiration tests that expired entries are misses and can be replaced by SetNX.
func TestMemoryStoreExpiration(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	require.Nil(t, m.MSet(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}, shortTTL))
	require.Nil(t, m.Set(ctx, "c", []byte("3"), 0))

	res, err := m.MGet(ctx, []string{"a", "b", "c"})
	assert.Nil(t, err)
	assert.Len(t, res, 3)

	time.Sleep(longerThanShortTTL)

	res, err = m.MGet(ctx, []string{"a", "b", "c"})
	assert.Nil(t, err)
	assert.Equal(t, map[string][]byte{"c": []byte("3")}, res)

	_, found, err := m.Get(ctx, "a")
	assert.Nil(t, err)
	assert.False(t, found)

	require.Nil(t, m.SetNX(ctx, "b", []byte("new"), 0))

	b, found, err := m.Get(ctx, "b")
	assert.Nil(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("new"), b)
}

func TestMemoryStoreFlush(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	require.Nil(t, m.Set(ctx, "a", []byte("1"), 0))
	m.Flush()

	assert.Equal(t, 0, m.Len())
}
