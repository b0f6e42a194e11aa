// Package vectorstore defines the long-term memory storage contract.
package vectorstore

import (
	"context"
	"errors"

	"github.com/edustack/concierge/internal/domain/memory"
)

// ErrVectorSizeMismatch is returned by EnsureCollection when an existing
// collection was created with a different vector size than configured.
// Continuing would silently corrupt similarity search, so callers treat
// this as fatal.
var ErrVectorSizeMismatch = errors.New("vectorstore: collection vector size mismatch")

// Store persists and retrieves memory records by embedding similarity.
type Store interface {
	// EnsureCollection creates the backing collection if missing and
	// verifies its vector size. Safe to call on every startup.
	EnsureCollection(ctx context.Context) error

	// Store persists one record. The record's embedding must match the
	// collection's vector size.
	Store(ctx context.Context, rec memory.Record) error

	// Search returns up to limit records most similar to embedding,
	// highest score first. A non-empty userID restricts results to that
	// user. No matches yields an empty slice, not an error.
	Search(ctx context.Context, embedding []float32, limit int, userID string) ([]memory.SearchResult, error)
}
