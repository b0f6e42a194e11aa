// Package inmem implements the vector store port in process memory. It
// backs local development and tests where no Qdrant or Postgres is running.
package inmem

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/edustack/concierge/internal/domain/memory"
	"github.com/edustack/concierge/internal/port/vectorstore"
)

type Store struct {
	mu         sync.RWMutex
	vectorSize int
	records    []memory.Record
}

func NewStore(vectorSize int) *Store {
	return &Store{vectorSize: vectorSize}
}

// EnsureCollection is a no-op aside from rejecting a zero vector size.
func (s *Store) EnsureCollection(_ context.Context) error {
	if s.vectorSize <= 0 {
		return fmt.Errorf("vector size %d: %w", s.vectorSize, vectorstore.ErrVectorSizeMismatch)
	}
	return nil
}

func (s *Store) Store(_ context.Context, rec memory.Record) error {
	if len(rec.Embedding) != s.vectorSize {
		return fmt.Errorf("store memory: embedding has %d dimensions, store expects %d",
			len(rec.Embedding), s.vectorSize)
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *Store) Search(_ context.Context, embedding []float32, limit int, userID string) ([]memory.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]memory.SearchResult, 0, limit)
	for _, rec := range s.records {
		if userID != "" && rec.Metadata[memory.MetaUserID] != userID {
			continue
		}
		results = append(results, memory.SearchResult{
			Text:     rec.Text,
			Metadata: rec.Metadata,
			Score:    cosineSimilarity(embedding, rec.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
