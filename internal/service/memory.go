package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/edustack/concierge/internal/adapter/otel"
	"github.com/edustack/concierge/internal/domain/memory"
	"github.com/edustack/concierge/internal/port/embedding"
	"github.com/edustack/concierge/internal/port/vectorstore"
	"github.com/edustack/concierge/internal/resilience"
)

// ErrDurability marks a memory write that failed after all retries. The
// conversation turn that produced the record still completes.
var ErrDurability = errors.New("memory write not durable")

// MemoryService embeds text and persists it to the shared long-term memory
// store. All agents write to and read from the same collection; isolation
// between users happens through the user_id metadata filter.
type MemoryService struct {
	embedder    embedding.Embedder
	store       vectorstore.Store
	metrics     *otel.Metrics
	searchLimit int
	attempts    uint64
	baseDelay   time.Duration
}

func NewMemoryService(embedder embedding.Embedder, store vectorstore.Store, metrics *otel.Metrics, searchLimit int, attempts uint64, baseDelay time.Duration) *MemoryService {
	return &MemoryService{
		embedder:    embedder,
		store:       store,
		metrics:     metrics,
		searchLimit: searchLimit,
		attempts:    attempts,
		baseDelay:   baseDelay,
	}
}

// Add embeds text and stores it as one record. userID, when non-empty, is
// merged into the metadata so later searches can scope to the user.
func (s *MemoryService) Add(ctx context.Context, text string, metadata map[string]string, userID string) error {
	ctx, span := otel.StartEmbedSpan(ctx)
	vec, err := s.embedder.Embed(ctx, text)
	span.End()
	if err != nil {
		s.metrics.MemoryWriteFailures.Add(ctx, 1)
		return fmt.Errorf("embed memory: %w", err)
	}

	meta := make(map[string]string, len(metadata)+1)
	for k, v := range metadata {
		meta[k] = v
	}
	if userID != "" {
		meta[memory.MetaUserID] = userID
	}

	rec := memory.Record{
		ID:        uuid.NewString(),
		Text:      text,
		Metadata:  meta,
		Embedding: vec,
		CreatedAt: time.Now().UTC(),
	}

	err = resilience.Retry(ctx, s.attempts, s.baseDelay, func(ctx context.Context) error {
		return s.store.Store(ctx, rec)
	})
	if err != nil {
		s.metrics.MemoryWriteFailures.Add(ctx, 1)
		return fmt.Errorf("%w: %v", ErrDurability, err)
	}

	s.metrics.MemoryWrites.Add(ctx, 1)
	slog.Debug("memory stored", "id", rec.ID, "user_id", userID)
	return nil
}

// Search embeds the query and returns the most similar records for userID.
// No matches yields an empty slice.
func (s *MemoryService) Search(ctx context.Context, query, userID string) ([]memory.SearchResult, error) {
	ctx, span := otel.StartEmbedSpan(ctx)
	vec, err := s.embedder.Embed(ctx, query)
	span.End()
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	ctx, span = otel.StartSearchSpan(ctx, userID)
	defer span.End()

	var results []memory.SearchResult
	err = resilience.Retry(ctx, s.attempts, s.baseDelay, func(ctx context.Context) error {
		var err error
		results, err = s.store.Search(ctx, vec, s.searchLimit, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("search memories: %w", err)
	}
	if results == nil {
		results = []memory.SearchResult{}
	}
	return results, nil
}
