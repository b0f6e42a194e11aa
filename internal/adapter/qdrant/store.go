// Package qdrant implements the vector store port against the Qdrant HTTP
// API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edustack/concierge/internal/domain/memory"
	"github.com/edustack/concierge/internal/port/vectorstore"
)

// Store talks to a Qdrant instance over HTTP.
type Store struct {
	baseURL    string
	apiKey     string
	collection string
	vectorSize int
	httpClient *http.Client
}

// NewStore creates a Qdrant-backed vector store for one collection.
// vectorSize must match the embedder's dimension.
func NewStore(baseURL, apiKey, collection string, vectorSize int) *Store {
	return &Store{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		collection: collection,
		vectorSize: vectorSize,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type collectionInfo struct {
	Result struct {
		Config struct {
			Params struct {
				Vectors struct {
					Size     int    `json:"size"`
					Distance string `json:"distance"`
				} `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	} `json:"result"`
}

// EnsureCollection creates the collection with cosine distance if it does
// not exist. An existing collection with a different vector size returns
// vectorstore.ErrVectorSizeMismatch.
func (s *Store) EnsureCollection(ctx context.Context) error {
	data, status, err := s.do(ctx, http.MethodGet, "/collections/"+s.collection, nil)
	if err != nil {
		return fmt.Errorf("get collection: %w", err)
	}

	if status == http.StatusOK {
		var info collectionInfo
		if err := json.Unmarshal(data, &info); err != nil {
			return fmt.Errorf("decode collection info: %w", err)
		}
		if got := info.Result.Config.Params.Vectors.Size; got != s.vectorSize {
			return fmt.Errorf("collection %q has size %d, configured %d: %w",
				s.collection, got, s.vectorSize, vectorstore.ErrVectorSizeMismatch)
		}
		return nil
	}
	if status != http.StatusNotFound {
		return fmt.Errorf("get collection: qdrant returned %d: %s", status, string(data))
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     s.vectorSize,
			"distance": "Cosine",
		},
	}
	data, status, err = s.do(ctx, http.MethodPut, "/collections/"+s.collection, body)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	if status >= 400 {
		// Concurrent startup can race collection creation.
		if strings.Contains(string(data), "already exists") {
			return nil
		}
		return fmt.Errorf("create collection: qdrant returned %d: %s", status, string(data))
	}
	return nil
}

// Store upserts one record as a single point. A missing ID gets a fresh
// UUID.
func (s *Store) Store(ctx context.Context, rec memory.Record) error {
	if len(rec.Embedding) != s.vectorSize {
		return fmt.Errorf("store point: embedding has %d dimensions, collection expects %d",
			len(rec.Embedding), s.vectorSize)
	}

	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}

	payload := map[string]any{"text": rec.Text}
	for k, v := range rec.Metadata {
		payload[k] = v
	}
	if !rec.CreatedAt.IsZero() {
		payload["created_at"] = rec.CreatedAt.UTC().Format(time.RFC3339)
	}

	body := map[string]any{
		"points": []map[string]any{{
			"id":      id,
			"vector":  rec.Embedding,
			"payload": payload,
		}},
	}
	data, status, err := s.do(ctx, http.MethodPut, "/collections/"+s.collection+"/points?wait=true", body)
	if err != nil {
		return fmt.Errorf("upsert point: %w", err)
	}
	if status >= 400 {
		return fmt.Errorf("upsert point: qdrant returned %d: %s", status, string(data))
	}
	return nil
}

type searchResponse struct {
	Result []struct {
		Score   float32        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// Search returns the most similar records, optionally filtered by user_id.
func (s *Store) Search(ctx context.Context, embedding []float32, limit int, userID string) ([]memory.SearchResult, error) {
	body := map[string]any{
		"vector":       embedding,
		"limit":        limit,
		"with_payload": true,
	}
	if userID != "" {
		body["filter"] = map[string]any{
			"must": []map[string]any{{
				"key":   memory.MetaUserID,
				"match": map[string]any{"value": userID},
			}},
		}
	}

	data, status, err := s.do(ctx, http.MethodPost, "/collections/"+s.collection+"/points/search", body)
	if err != nil {
		return nil, fmt.Errorf("search points: %w", err)
	}
	if status >= 400 {
		return nil, fmt.Errorf("search points: qdrant returned %d: %s", status, string(data))
	}

	var resp searchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]memory.SearchResult, 0, len(resp.Result))
	for _, hit := range resp.Result {
		r := memory.SearchResult{Score: hit.Score, Metadata: make(map[string]string)}
		for k, v := range hit.Payload {
			str, ok := v.(string)
			if !ok {
				continue
			}
			if k == "text" {
				r.Text = str
				continue
			}
			r.Metadata[k] = str
		}
		results = append(results, r)
	}
	return results, nil
}

func (s *Store) do(ctx context.Context, method, path string, body any) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	return data, resp.StatusCode, nil
}
