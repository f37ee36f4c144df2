package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/batiwork/batisearch/core"
	"github.com/batiwork/batisearch/storage"
)

// Key prefix for cached designation embeddings.
const vectorPrefix = "desvec"

// makeVectorKey generates a key for an embedding by content ID.
func makeVectorKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", vectorPrefix, id))
}

// VectorStore implements storage.VectorRepository on a Backend.
type VectorStore struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.VectorRepository = (*VectorStore)(nil)

// NewVectorStore creates a vector repository backed by an open Backend.
// The store owns the backend; Close closes it.
func NewVectorStore(backend *Backend, logger *slog.Logger) *VectorStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &VectorStore{
		backend: backend,
		logger:  logger.With("component", "vector-store"),
	}
}

// GetVector returns the cached embedding for a content-derived ID.
func (s *VectorStore) GetVector(ctx context.Context, id core.ID) ([]float32, error) {
	var vector []float32
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeVectorKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrVectorNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			vector, err = storage.UnmarshalVector(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return vector, nil
}

// PutVector stores the embedding for a content-derived ID.
func (s *VectorStore) PutVector(ctx context.Context, id core.ID, vector []float32) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeVectorKey(id), storage.MarshalVector(vector)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Close closes the underlying backend.
func (s *VectorStore) Close() error {
	return s.backend.Close()
}
