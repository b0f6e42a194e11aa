// Package messagequeue defines the event publishing contract and the
// subjects emitted during a chat turn.
package messagequeue

import (
	"context"
	"time"
)

// Subjects published by the chat pipeline.
const (
	// SubjectTurnCompleted carries a TurnCompletedPayload after every
	// successfully answered turn.
	SubjectTurnCompleted = "chat.turn.completed"

	// SubjectMemoryDurability carries a MemoryDurabilityPayload when a
	// memory write failed after the response was already produced.
	SubjectMemoryDurability = "chat.memory.durability"
)

// TurnCompletedPayload describes one finished chat turn.
type TurnCompletedPayload struct {
	UserID      string    `json:"user_id"`
	Agent       string    `json:"agent"`
	Message     string    `json:"message"`
	Response    string    `json:"response"`
	CompletedAt time.Time `json:"completed_at"`
}

// MemoryDurabilityPayload reports a failed long-term memory write for a
// turn that still completed.
type MemoryDurabilityPayload struct {
	UserID     string    `json:"user_id"`
	Agent      string    `json:"agent"`
	Error      string    `json:"error"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Queue publishes chat events. Implementations must be safe for concurrent
// use. Publishing is best-effort; a failed publish never fails the turn.
type Queue interface {
	Publish(ctx context.Context, subject string, payload any) error
	IsConnected() bool
	Drain() error
	Close()
}
