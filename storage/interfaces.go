package storage

import (
	"context"

	"github.com/poiesic/docfind/core"
)

// VectorCache persists dense embedding vectors across document loads,
// keyed by content hash. The lexical index itself is always rebuilt
// per load; only the expensive embedding work is reused.
//
// Implementations must be thread-safe and support concurrent access.
type VectorCache interface {
	// Get retrieves a cached vector. The second return value reports
	// whether the key was present.
	Get(ctx context.Context, key core.ID) ([]float32, bool, error)

	// Put stores a vector under the key, overwriting any previous value.
	Put(ctx context.Context, key core.ID, vector []float32) error

	// Close closes the cache backend and releases resources.
	Close() error
}

// CacheKey derives the cache key for one chunk's embedding: a content
// hash of the model identifier and the chunk text, so switching models
// never serves stale vectors.
func CacheKey(model, chunkText string) core.ID {
	return core.IDFromContent(model + "\x00" + chunkText)
}
