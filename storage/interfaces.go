// Package storage defines persistence interfaces for the catalog search
// service and the binary serialization used by their implementations.
package storage

import (
	"context"

	"github.com/batiwork/batisearch/core"
)

// VectorRepository persists designation embeddings across process restarts so
// a catalog reload does not re-encode every entry.
// Implementations must be thread-safe for concurrent use.
type VectorRepository interface {
	// GetVector returns the cached embedding for a content-derived ID.
	// Returns ErrVectorNotFound when no vector is cached under the ID.
	GetVector(ctx context.Context, id core.ID) ([]float32, error)

	// PutVector stores the embedding for a content-derived ID, replacing any
	// previous value.
	PutVector(ctx context.Context, id core.ID, vector []float32) error

	// Close releases the underlying store.
	Close() error
}
