package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edustack/concierge/internal/adapter/otel"
	"github.com/edustack/concierge/internal/domain/agent"
	"github.com/edustack/concierge/internal/domain/conversation"
	"github.com/edustack/concierge/internal/domain/memory"
	"github.com/edustack/concierge/internal/port/llm"
	"github.com/edustack/concierge/internal/port/messagequeue"
)

// TurnResult is the outcome of one agent turn.
type TurnResult struct {
	Response string
	UserID   string
}

// Agent answers user messages for one role. Each agent keeps its own
// short-term conversation history but shares the long-term memory store
// with every other agent.
type Agent struct {
	identity      agent.Identity
	llm           llm.Client
	memory        *MemoryService
	history       *conversation.History
	queue         messagequeue.Queue // nil disables durability events
	temperature   float32
	maxTokens     int
	historyWindow int
}

func NewAgent(identity agent.Identity, client llm.Client, mem *MemoryService, queue messagequeue.Queue, temperature float32, maxTokens, historyWindow int) *Agent {
	return &Agent{
		identity:      identity,
		llm:           client,
		memory:        mem,
		history:       conversation.NewHistory(),
		queue:         queue,
		temperature:   temperature,
		maxTokens:     maxTokens,
		historyWindow: historyWindow,
	}
}

// Identity returns the agent's immutable identity.
func (a *Agent) Identity() agent.Identity { return a.identity }

// Respond answers message for userID. An empty userID gets a fresh UUID so
// the caller can continue the conversation. Memory recall and the final
// memory write are both best-effort: the turn completes on the completion
// alone.
func (a *Agent) Respond(ctx context.Context, userID, message string) (TurnResult, error) {
	if userID == "" {
		userID = uuid.NewString()
	}

	memories, err := a.memory.Search(ctx, message, userID)
	if err != nil {
		slog.Warn("memory recall failed, answering without context",
			"agent", a.identity.Role, "user_id", userID, "error", err)
		memories = nil
	}

	msgs := a.prepareMessages(userID, message, formatMemories(memories))

	ctx, span := otel.StartCompletionSpan(ctx, string(a.identity.Role))
	response, err := a.llm.GenerateWithHistory(ctx, msgs, a.temperature, a.maxTokens)
	span.End()
	if err != nil {
		return TurnResult{}, fmt.Errorf("agent %s: %w", a.identity.Role, err)
	}

	a.history.Append(userID,
		conversation.Turn{Role: conversation.RoleUser, Content: message},
		conversation.Turn{Role: conversation.RoleAssistant, Content: response},
	)

	record := fmt.Sprintf("User: %s\nAgent: %s", message, response)
	meta := map[string]string{memory.MetaInteractionType: memory.InteractionConversation}
	if err := a.memory.Add(ctx, record, meta, userID); err != nil {
		// The response already exists; losing the memory write must not
		// fail the turn.
		slog.Warn("memory write failed, turn completes without durability",
			"agent", a.identity.Role, "user_id", userID, "error", err)
		a.publishDurabilityEvent(ctx, userID, err)
	}

	return TurnResult{Response: response, UserID: userID}, nil
}

func (a *Agent) prepareMessages(userID, message, memoryContext string) []llm.Message {
	msgs := make([]llm.Message, 0, a.historyWindow+3)
	if a.identity.Persona != "" {
		msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: a.identity.Persona})
	}
	for _, t := range a.history.Recent(userID, a.historyWindow) {
		msgs = append(msgs, llm.Message{Role: t.Role, Content: t.Content})
	}
	if memoryContext != "" {
		msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: "Additional context: " + memoryContext})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: message})
	return msgs
}

func (a *Agent) publishDurabilityEvent(ctx context.Context, userID string, cause error) {
	if a.queue == nil {
		return
	}
	payload := messagequeue.MemoryDurabilityPayload{
		UserID:     userID,
		Agent:      string(a.identity.Role),
		Error:      cause.Error(),
		OccurredAt: time.Now().UTC(),
	}
	if err := a.queue.Publish(ctx, messagequeue.SubjectMemoryDurability, payload); err != nil {
		slog.Warn("durability event publish failed", "error", err)
	}
}

// formatMemories renders retrieved memories as a numbered context block.
// No memories yields an empty string, which suppresses the context message.
func formatMemories(memories []memory.SearchResult) string {
	if len(memories) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Previous relevant interactions:\n")
	for i, m := range memories {
		fmt.Fprintf(&b, "%d. %s\n", i+1, m.Text)
	}
	return b.String()
}
