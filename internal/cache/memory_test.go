package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	var miss payload
	ok, err := c.Get(ctx, "k1", &miss)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k1", payload{Name: "a", Count: 3}, time.Minute))

	var got payload
	ok, err = c.Get(ctx, "k1", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload{Name: "a", Count: 3}, got)
}

func TestMemoryCacheExpiry(t *testing.T) {
	now := time.Now()
	c := NewMemoryWithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", payload{Name: "a"}, 60*time.Second))

	var got payload
	ok, err := c.Get(ctx, "k1", &got)
	require.NoError(t, err)
	assert.True(t, ok)

	// 拨过 TTL 之后必须是未命中
	now = now.Add(61 * time.Second)
	ok, err = c.Get(ctx, "k1", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheInvalidate(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", payload{Name: "a"}, time.Minute))
	require.NoError(t, c.Set(ctx, "k2", payload{Name: "b"}, time.Minute))
	require.NoError(t, c.Invalidate(ctx, "k1", "k2", "k3"))

	var got payload
	ok, err := c.Get(ctx, "k1", &got)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = c.Get(ctx, "k2", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheCorruptEntry(t *testing.T) {
	c := NewMemory().(*memoryCache)
	ctx := context.Background()

	c.entries["k1"] = memoryEntry{
		body:      []byte("{not json"),
		expiresAt: time.Now().Add(time.Minute),
	}

	// 损坏数据当作未命中，并且条目被清掉
	var got payload
	ok, err := c.Get(ctx, "k1", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	c.mu.RLock()
	_, present := c.entries["k1"]
	c.mu.RUnlock()
	assert.False(t, present)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "book:42", BookKey(42))
	assert.Equal(t, "user:abc-123", UserKey("abc-123"))
	assert.Equal(t, "books:all", KeyBooksAll)
}
