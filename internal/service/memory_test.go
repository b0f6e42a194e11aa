package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/edustack/concierge/internal/adapter/embed"
	"github.com/edustack/concierge/internal/domain/memory"
	"github.com/edustack/concierge/internal/service"
)

func TestMemoryAddMergesUserID(t *testing.T) {
	mem, store := testMemoryService(t)
	ctx := context.Background()

	meta := map[string]string{memory.MetaInteractionType: memory.InteractionConversation}
	if err := mem.Add(ctx, "User: hi\nAgent: hello", meta, "u1"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 stored record, got %d", store.Len())
	}
	// The caller's map must not be mutated.
	if _, ok := meta[memory.MetaUserID]; ok {
		t.Error("Add mutated caller metadata")
	}

	results, err := mem.Search(ctx, "User: hi\nAgent: hello", "u1")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Metadata[memory.MetaUserID] != "u1" {
		t.Errorf("stored user_id = %q", results[0].Metadata[memory.MetaUserID])
	}
	if results[0].Metadata[memory.MetaInteractionType] != memory.InteractionConversation {
		t.Errorf("stored interaction_type = %q", results[0].Metadata[memory.MetaInteractionType])
	}
}

func TestMemorySearchScopesToUser(t *testing.T) {
	mem, _ := testMemoryService(t)
	ctx := context.Background()

	if err := mem.Add(ctx, "alice asked about pricing", nil, "alice"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := mem.Add(ctx, "bob asked about pricing", nil, "bob"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	results, err := mem.Search(ctx, "pricing", "alice")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, r := range results {
		if r.Metadata[memory.MetaUserID] != "alice" {
			t.Errorf("leaked record for %q", r.Metadata[memory.MetaUserID])
		}
	}
}

func TestMemorySearchEmptyStoreReturnsEmptySlice(t *testing.T) {
	mem, _ := testMemoryService(t)

	results, err := mem.Search(context.Background(), "anything", "u1")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Fatalf("expected empty slice, got %v", results)
	}
}

func TestMemoryAddSurfacesStoreFailure(t *testing.T) {
	mem := service.NewMemoryService(embed.NewDev(testDim), failingStore{}, testMetrics(t), 5, 2, time.Millisecond)

	err := mem.Add(context.Background(), "text", nil, "u1")
	if !errors.Is(err, service.ErrDurability) {
		t.Fatalf("expected ErrDurability, got %v", err)
	}
}
