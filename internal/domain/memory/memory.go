// Package memory defines the long-term memory records shared by all agents.
package memory

import "time"

// Well-known metadata keys. Every stored record carries MetaUserID so that
// retrieval can be scoped to a single user.
const (
	MetaUserID          = "user_id"
	MetaInteractionType = "interaction_type"

	// InteractionConversation tags records written from completed chat turns.
	InteractionConversation = "conversation"
)

// Record is one memory entry as written to the vector store.
type Record struct {
	ID        string
	Text      string
	Metadata  map[string]string
	Embedding []float32
	CreatedAt time.Time
}

// SearchResult is a retrieved memory with its similarity score. Higher is
// more similar.
type SearchResult struct {
	Text     string
	Metadata map[string]string
	Score    float32
}
