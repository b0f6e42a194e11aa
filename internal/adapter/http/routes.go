package http

import (
	"github.com/go-chi/chi/v5"

	"github.com/edustack/concierge/internal/adapter/ws"
)

// MountRoutes registers all API routes on the given chi router. hub may be
// nil when the event stream is disabled.
func MountRoutes(r chi.Router, h *Handlers, hub *ws.Hub) {
	r.Get("/health", h.HandleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", h.HandleChat)
		r.Get("/agents", h.HandleListAgents)
		r.Post("/agents/{role}/chat", h.HandleAgentChat)
	})

	if hub != nil {
		r.Get("/ws", hub.HandleWS)
	}
}
