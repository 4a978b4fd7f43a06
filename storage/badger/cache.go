package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docfind/core"
	"github.com/poiesic/docfind/storage"
)

const vectorPrefix = "embvec"

// makeVectorKey generates a key for a cached embedding vector.
func makeVectorKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", vectorPrefix, id))
}

// VectorCache is the BadgerDB-backed implementation of storage.VectorCache.
type VectorCache struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.VectorCache = (*VectorCache)(nil)

// NewVectorCache creates a vector cache over an open backend.
func NewVectorCache(backend *Backend) (*VectorCache, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &VectorCache{
		backend: backend,
		logger:  slog.Default().With("component", "vector-cache"),
	}, nil
}

// Get retrieves a cached vector by key.
func (c *VectorCache) Get(ctx context.Context, key core.ID) ([]float32, bool, error) {
	var vector []float32
	found := false

	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeVectorKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			decoded, err := storage.UnmarshalVector(val)
			if err != nil {
				// A corrupt record behaves like a miss; it will be overwritten.
				c.logger.Warn("dropping corrupt cached vector", "key", key, "err", err)
				return nil
			}
			vector = decoded
			found = true
			return nil
		})
	}, false)
	if err != nil {
		return nil, false, err
	}

	return vector, found, nil
}

// Put stores a vector under the key.
func (c *VectorCache) Put(ctx context.Context, key core.ID, vector []float32) error {
	return c.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeVectorKey(key), storage.MarshalVector(vector)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Close closes the underlying backend.
func (c *VectorCache) Close() error {
	return c.backend.Close()
}
