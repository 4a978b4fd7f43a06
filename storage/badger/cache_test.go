package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/docfind/storage"
)

func newTestCache(t *testing.T) *VectorCache {
	t.Helper()

	cache, err := NewMemoryCache()
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestVectorCache_GetMiss(t *testing.T) {
	cache := newTestCache(t)

	_, found, err := cache.Get(context.Background(), storage.CacheKey("model", "unseen"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestVectorCache_PutGet(t *testing.T) {
	cache := newTestCache(t)
	key := storage.CacheKey("model", "the chunk text")
	vector := []float32{0.1, 0.2, 0.3}

	require.NoError(t, cache.Put(context.Background(), key, vector))

	got, found, err := cache.Get(context.Background(), key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, vector, got)
}

func TestVectorCache_Overwrite(t *testing.T) {
	cache := newTestCache(t)
	key := storage.CacheKey("model", "the chunk text")

	require.NoError(t, cache.Put(context.Background(), key, []float32{1}))
	require.NoError(t, cache.Put(context.Background(), key, []float32{2, 3}))

	got, found, err := cache.Get(context.Background(), key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []float32{2, 3}, got)
}

func TestVectorCache_KeysAreIndependent(t *testing.T) {
	cache := newTestCache(t)

	require.NoError(t, cache.Put(context.Background(), storage.CacheKey("model-a", "text"), []float32{1}))

	_, found, err := cache.Get(context.Background(), storage.CacheKey("model-b", "text"))
	require.NoError(t, err)
	assert.False(t, found, "a different model must not see the vector")
}
