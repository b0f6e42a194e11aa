package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "concierge"

// StartTurnSpan starts a span covering one full chat turn.
func StartTurnSpan(ctx context.Context, userID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "turn",
		trace.WithAttributes(
			attribute.String("user.id", userID),
		),
	)
}

// StartRouteSpan starts a span for router classification.
func StartRouteSpan(ctx context.Context) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "route")
}

// StartEmbedSpan starts a span for one embedding call.
func StartEmbedSpan(ctx context.Context) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "embed")
}

// StartSearchSpan starts a span for a memory similarity search.
func StartSearchSpan(ctx context.Context, userID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "memory.search",
		trace.WithAttributes(
			attribute.String("user.id", userID),
		),
	)
}

// StartCompletionSpan starts a span for a chat completion call.
func StartCompletionSpan(ctx context.Context, agent string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "completion",
		trace.WithAttributes(
			attribute.String("agent.role", agent),
		),
	)
}
