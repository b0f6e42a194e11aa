package qdrant_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/edustack/concierge/internal/adapter/qdrant"
	"github.com/edustack/concierge/internal/domain/memory"
	"github.com/edustack/concierge/internal/port/vectorstore"
)

// fakeQdrant emulates the subset of the Qdrant HTTP API the store uses.
type fakeQdrant struct {
	mu          sync.Mutex
	collections map[string]int // name -> vector size
	points      []fakePoint
}

type fakePoint struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

func newFakeQdrant() *fakeQdrant {
	return &fakeQdrant{collections: make(map[string]int)}
}

func (f *fakeQdrant) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /collections/{name}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		size, ok := f.collections[r.PathValue("name")]
		if !ok {
			http.Error(w, `{"status":{"error":"Not found"}}`, http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{
				"config": map[string]any{
					"params": map[string]any{
						"vectors": map[string]any{"size": size, "distance": "Cosine"},
					},
				},
			},
		})
	})
	mux.HandleFunc("PUT /collections/{name}", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Vectors struct {
				Size int `json:"size"`
			} `json:"vectors"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.collections[r.PathValue("name")] = body.Vectors.Size
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"result":true,"status":"ok"}`))
	})
	mux.HandleFunc("PUT /collections/{name}/points", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Points []fakePoint `json:"points"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.points = append(f.points, body.Points...)
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"result":{"status":"completed"},"status":"ok"}`))
	})
	mux.HandleFunc("POST /collections/{name}/points/search", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Limit  int `json:"limit"`
			Filter *struct {
				Must []struct {
					Key   string `json:"key"`
					Match struct {
						Value string `json:"value"`
					} `json:"match"`
				} `json:"must"`
			} `json:"filter"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		f.mu.Lock()
		defer f.mu.Unlock()
		var hits []map[string]any
		for _, p := range f.points {
			if body.Filter != nil {
				matched := true
				for _, cond := range body.Filter.Must {
					if p.Payload[cond.Key] != cond.Match.Value {
						matched = false
						break
					}
				}
				if !matched {
					continue
				}
			}
			hits = append(hits, map[string]any{"score": 0.9, "payload": p.Payload})
			if len(hits) == body.Limit {
				break
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"result": hits})
	})
	return mux
}

func TestEnsureCollectionCreatesWhenMissing(t *testing.T) {
	fake := newFakeQdrant()
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	s := qdrant.NewStore(srv.URL, "", "agent_memory", 8)
	if err := s.EnsureCollection(context.Background()); err != nil {
		t.Fatalf("EnsureCollection: %v", err)
	}
	if got := fake.collections["agent_memory"]; got != 8 {
		t.Errorf("collection created with size %d, want 8", got)
	}

	// Idempotent on second run.
	if err := s.EnsureCollection(context.Background()); err != nil {
		t.Fatalf("EnsureCollection (second run): %v", err)
	}
}

func TestEnsureCollectionDetectsSizeMismatch(t *testing.T) {
	fake := newFakeQdrant()
	fake.collections["agent_memory"] = 1536
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	s := qdrant.NewStore(srv.URL, "", "agent_memory", 8)
	err := s.EnsureCollection(context.Background())
	if !errors.Is(err, vectorstore.ErrVectorSizeMismatch) {
		t.Fatalf("expected ErrVectorSizeMismatch, got %v", err)
	}
}

func TestStoreAssignsIDAndFlattensMetadata(t *testing.T) {
	fake := newFakeQdrant()
	fake.collections["agent_memory"] = 3
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	s := qdrant.NewStore(srv.URL, "", "agent_memory", 3)
	rec := memory.Record{
		Text:      "User: hi\nAgent: hello",
		Embedding: []float32{0.1, 0.2, 0.3},
		Metadata: map[string]string{
			memory.MetaUserID:          "u1",
			memory.MetaInteractionType: memory.InteractionConversation,
		},
		CreatedAt: time.Now(),
	}
	if err := s.Store(context.Background(), rec); err != nil {
		t.Fatalf("Store: %v", err)
	}

	if len(fake.points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(fake.points))
	}
	p := fake.points[0]
	if p.ID == "" {
		t.Error("expected generated point id")
	}
	if p.Payload["text"] != rec.Text {
		t.Errorf("payload text = %v", p.Payload["text"])
	}
	if p.Payload[memory.MetaUserID] != "u1" {
		t.Errorf("payload user_id = %v", p.Payload[memory.MetaUserID])
	}
	if p.Payload[memory.MetaInteractionType] != memory.InteractionConversation {
		t.Errorf("payload interaction_type = %v", p.Payload[memory.MetaInteractionType])
	}
}

func TestStoreRejectsWrongDimension(t *testing.T) {
	s := qdrant.NewStore("http://localhost:0", "", "agent_memory", 8)
	err := s.Store(context.Background(), memory.Record{
		Text:      "x",
		Embedding: []float32{1, 2},
	})
	if err == nil {
		t.Fatal("expected dimension error")
	}
}

func TestSearchFiltersByUser(t *testing.T) {
	fake := newFakeQdrant()
	fake.collections["agent_memory"] = 3
	fake.points = []fakePoint{
		{ID: "1", Payload: map[string]any{"text": "alice memory", memory.MetaUserID: "alice"}},
		{ID: "2", Payload: map[string]any{"text": "bob memory", memory.MetaUserID: "bob"}},
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	s := qdrant.NewStore(srv.URL, "", "agent_memory", 3)
	results, err := s.Search(context.Background(), []float32{0.1, 0.2, 0.3}, 5, "alice")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Text != "alice memory" {
		t.Errorf("result text = %q", results[0].Text)
	}
	if results[0].Metadata[memory.MetaUserID] != "alice" {
		t.Errorf("result metadata = %v", results[0].Metadata)
	}
}

func TestSearchNoMatchesReturnsEmptySlice(t *testing.T) {
	fake := newFakeQdrant()
	fake.collections["agent_memory"] = 3
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	s := qdrant.NewStore(srv.URL, "", "agent_memory", 3)
	results, err := s.Search(context.Background(), []float32{0.1, 0.2, 0.3}, 5, "nobody")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Fatalf("expected empty slice, got %v", results)
	}
}
