package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edustack/concierge/internal/adapter/otel"
	"github.com/edustack/concierge/internal/domain/agent"
	"github.com/edustack/concierge/internal/port/llm"
)

const routerPromptFormat = `Based on the following query, determine which agent should handle it:
Query: %s

Available agents:
- sales: For queries about courses, pricing, and enrollment
- help: For technical issues, login problems, and general support
- manage: For operational inquiries and system status
- marketing: For information about promotions and marketing materials

Reply with just the agent name (sales, help, manage, or marketing):`

// Router classifies a query to the agent role that should handle it. It
// fails open: any classifier problem routes to the help agent so the turn
// still completes.
type Router struct {
	llm       llm.Client
	metrics   *otel.Metrics
	maxTokens int
}

func NewRouter(client llm.Client, metrics *otel.Metrics) *Router {
	return &Router{llm: client, metrics: metrics, maxTokens: 16}
}

// Route returns the role for query. Classification runs at temperature 0
// so the same query routes the same way every time.
func (r *Router) Route(ctx context.Context, query string) agent.Role {
	ctx, span := otel.StartRouteSpan(ctx)
	defer span.End()

	prompt := fmt.Sprintf(routerPromptFormat, query)
	raw, err := r.llm.Generate(ctx, prompt, "", 0, r.maxTokens)
	if err != nil {
		slog.Warn("router classification failed, falling back to help", "error", err)
		r.metrics.RoutedQueries.Add(ctx, 1)
		return agent.RoleHelp
	}

	role := agent.RoleOrHelp(raw)
	slog.Debug("query routed", "agent", role, "raw", raw)
	r.metrics.RoutedQueries.Add(ctx, 1)
	return role
}
