package http

import (
	"net/http"

	"github.com/edustack/concierge/internal/domain/agent"
	"github.com/edustack/concierge/internal/domain/conversation"
	"github.com/edustack/concierge/internal/service"
)

const maxBodyBytes = 1 << 20

// Handlers holds the chat endpoints' dependencies.
type Handlers struct {
	graph *service.Graph
}

func NewHandlers(graph *service.Graph) *Handlers {
	return &Handlers{graph: graph}
}

type chatRequest struct {
	Message string              `json:"message"`
	UserID  string              `json:"user_id,omitempty"`
	History []conversation.Turn `json:"history,omitempty"`
}

type chatResponse struct {
	Response string              `json:"response"`
	Agent    string              `json:"agent"`
	UserID   string              `json:"user_id"`
	History  []conversation.Turn `json:"history"`
}

// HandleChat routes the message through the agent graph.
func (h *Handlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[chatRequest](w, r, maxBodyBytes)
	if !ok {
		return
	}
	if !requireField(w, req.Message, "message") {
		return
	}

	result, err := h.graph.Process(r.Context(), req.UserID, req.Message, req.History)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response: result.Response,
		Agent:    result.Agent,
		UserID:   result.UserID,
		History:  result.History,
	})
}

type agentChatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

type agentChatResponse struct {
	Response string `json:"response"`
	Agent    string `json:"agent"`
	UserID   string `json:"user_id"`
}

// HandleAgentChat talks to one agent directly, bypassing the router.
func (h *Handlers) HandleAgentChat(w http.ResponseWriter, r *http.Request) {
	role, err := agent.ParseRole(urlParam(r, "role"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown agent")
		return
	}
	ag, ok := h.graph.Agent(role)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown agent")
		return
	}

	req, ok := readJSON[agentChatRequest](w, r, maxBodyBytes)
	if !ok {
		return
	}
	if !requireField(w, req.Message, "message") {
		return
	}

	result, err := ag.Respond(r.Context(), req.UserID, req.Message)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, agentChatResponse{
		Response: result.Response,
		Agent:    string(role),
		UserID:   result.UserID,
	})
}

type agentInfo struct {
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
}

// HandleListAgents returns the agent catalog.
func (h *Handlers) HandleListAgents(w http.ResponseWriter, _ *http.Request) {
	agents := make([]agentInfo, 0, len(agent.Roles))
	for _, role := range agent.Roles {
		ag, ok := h.graph.Agent(role)
		if !ok {
			continue
		}
		agents = append(agents, agentInfo{
			Role:        string(role),
			DisplayName: ag.Identity().DisplayName,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"agents": agents})
}

// HandleHealth reports liveness.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
