package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/edustack/concierge/internal/adapter/otel"
	"github.com/edustack/concierge/internal/adapter/ws"
	"github.com/edustack/concierge/internal/domain/agent"
	"github.com/edustack/concierge/internal/domain/conversation"
	"github.com/edustack/concierge/internal/port/messagequeue"
)

// apologyResponse is returned when no agent produced a usable answer.
const apologyResponse = "I'm sorry, but I couldn't process your request."

// GraphResult is the outcome of one full chat turn through the graph.
type GraphResult struct {
	Response string
	Agent    string
	UserID   string
	History  []conversation.Turn
}

// Graph dispatches each query through the router to exactly one agent and
// selects the final response. It is the single entry point for chat turns.
type Graph struct {
	router  *Router
	agents  map[agent.Role]*Agent
	hub     *ws.Hub            // nil disables event streaming
	queue   messagequeue.Queue // nil disables turn events
	metrics *otel.Metrics
}

func NewGraph(router *Router, agents map[agent.Role]*Agent, hub *ws.Hub, queue messagequeue.Queue, metrics *otel.Metrics) *Graph {
	return &Graph{
		router:  router,
		agents:  agents,
		hub:     hub,
		queue:   queue,
		metrics: metrics,
	}
}

// Agent returns the agent for role, if configured.
func (g *Graph) Agent(role agent.Role) (*Agent, bool) {
	a, ok := g.agents[role]
	return a, ok
}

// Process routes message to one agent and returns its answer together with
// the extended conversation history. history is the caller-supplied prior
// turns; it is never mutated.
func (g *Graph) Process(ctx context.Context, userID, message string, history []conversation.Turn) (GraphResult, error) {
	ctx, span := otel.StartTurnSpan(ctx, userID)
	defer span.End()
	start := time.Now()

	role := g.router.Route(ctx, message)

	ag, ok := g.agents[role]
	if !ok {
		// The router only emits known roles, but a missing agent in the
		// map must not crash the turn.
		slog.Warn("no agent configured for role, using help", "agent", role)
		role = agent.RoleHelp
		if ag, ok = g.agents[role]; !ok {
			g.metrics.TurnsFailed.Add(ctx, 1)
			return GraphResult{}, fmt.Errorf("no agent configured for role %q", role)
		}
	}

	result, err := ag.Respond(ctx, userID, message)
	if err != nil {
		g.metrics.TurnsFailed.Add(ctx, 1)
		return GraphResult{}, err
	}

	// Exactly one agent runs per turn, so the only fallback left is the
	// apology for an empty answer.
	final := result.Response
	if final == "" {
		final = apologyResponse
	}

	out := make([]conversation.Turn, 0, len(history)+2)
	out = append(out, history...)
	out = append(out,
		conversation.Turn{Role: conversation.RoleUser, Content: message},
		conversation.Turn{Role: conversation.RoleAssistant, Content: final},
	)

	g.metrics.TurnsCompleted.Add(ctx, 1)
	g.metrics.TurnDuration.Record(ctx, time.Since(start).Seconds())
	g.publishTurnEvent(ctx, role, result.UserID, message, final)

	return GraphResult{
		Response: final,
		Agent:    string(role),
		UserID:   result.UserID,
		History:  out,
	}, nil
}

func (g *Graph) publishTurnEvent(ctx context.Context, role agent.Role, userID, message, response string) {
	now := time.Now().UTC()
	if g.hub != nil {
		g.hub.Broadcast(ctx, ws.TurnEvent{
			UserID:      userID,
			Agent:       string(role),
			Message:     message,
			Response:    response,
			CompletedAt: now,
		})
	}
	if g.queue == nil {
		return
	}
	payload := messagequeue.TurnCompletedPayload{
		UserID:      userID,
		Agent:       string(role),
		Message:     message,
		Response:    response,
		CompletedAt: now,
	}
	if err := g.queue.Publish(ctx, messagequeue.SubjectTurnCompleted, payload); err != nil {
		slog.Warn("turn event publish failed", "error", err)
	}
}
