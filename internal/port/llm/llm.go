// Package llm defines the completion client contract.
package llm

import "context"

// Message roles accepted by chat completion backends.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of a chat completion request.
type Message struct {
	Role    string
	Content string
}

// Client produces chat completions. Implementations must return an error
// when the backend yields no choices rather than an empty string.
type Client interface {
	// Generate sends an optional system message followed by the user prompt.
	// An empty system string means no system message is sent.
	Generate(ctx context.Context, prompt, system string, temperature float32, maxTokens int) (string, error)

	// GenerateWithHistory sends the messages exactly as given, preserving
	// order.
	GenerateWithHistory(ctx context.Context, messages []Message, temperature float32, maxTokens int) (string, error)
}
