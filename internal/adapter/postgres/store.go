package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edustack/concierge/internal/domain/memory"
	"github.com/edustack/concierge/internal/port/vectorstore"
)

// Store implements the vector store port on a pgvector-enabled database.
type Store struct {
	pool       *pgxpool.Pool
	vectorSize int
}

func NewStore(pool *pgxpool.Pool, vectorSize int) *Store {
	return &Store{pool: pool, vectorSize: vectorSize}
}

// EnsureCollection verifies the memories table exists with the configured
// vector size. The table itself is created by migrations; this only guards
// against a dimension drift between config and schema.
func (s *Store) EnsureCollection(ctx context.Context) error {
	var typmod int
	err := s.pool.QueryRow(ctx, `
		SELECT atttypmod FROM pg_attribute
		WHERE attrelid = 'memories'::regclass AND attname = 'embedding'`).Scan(&typmod)
	if err != nil {
		return fmt.Errorf("inspect memories table: %w", err)
	}
	// For vector columns atttypmod is the declared dimension.
	if typmod != s.vectorSize {
		return fmt.Errorf("memories.embedding has %d dimensions, configured %d: %w",
			typmod, s.vectorSize, vectorstore.ErrVectorSizeMismatch)
	}
	return nil
}

// Store inserts one record. A missing ID gets a fresh UUID.
func (s *Store) Store(ctx context.Context, rec memory.Record) error {
	if len(rec.Embedding) != s.vectorSize {
		return fmt.Errorf("store memory: embedding has %d dimensions, table expects %d",
			len(rec.Embedding), s.vectorSize)
	}

	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	meta, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO memories (id, text, user_id, interaction_type, metadata, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::vector, $7)`,
		id, rec.Text,
		rec.Metadata[memory.MetaUserID],
		rec.Metadata[memory.MetaInteractionType],
		meta, vectorLiteral(rec.Embedding), createdAt)
	if err != nil {
		return fmt.Errorf("insert memory: %w", err)
	}
	return nil
}

// Search ranks records by cosine similarity, optionally scoped to one user.
func (s *Store) Search(ctx context.Context, embedding []float32, limit int, userID string) ([]memory.SearchResult, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT text, metadata, 1 - (embedding <=> $1::vector) AS score
		FROM memories
		WHERE ($2 = '' OR user_id = $2)
		ORDER BY embedding <=> $1::vector
		LIMIT $3`,
		vectorLiteral(embedding), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("search memories: %w", err)
	}
	defer rows.Close()

	results := make([]memory.SearchResult, 0, limit)
	for rows.Next() {
		var (
			r    memory.SearchResult
			meta []byte
		)
		if err := rows.Scan(&r.Text, &meta, &r.Score); err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &r.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata: %w", err)
			}
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memories: %w", err)
	}
	return results, nil
}

// vectorLiteral renders an embedding in pgvector's text input format.
func vectorLiteral(vec []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
