package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "concierge"

// Metrics holds all chat pipeline metric instruments.
type Metrics struct {
	TurnsCompleted      metric.Int64Counter
	TurnsFailed         metric.Int64Counter
	RoutedQueries       metric.Int64Counter
	MemoryWrites        metric.Int64Counter
	MemoryWriteFailures metric.Int64Counter
	TurnDuration        metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.TurnsCompleted, err = meter.Int64Counter("concierge.turns.completed",
		metric.WithDescription("Number of chat turns completed"))
	if err != nil {
		return nil, err
	}

	m.TurnsFailed, err = meter.Int64Counter("concierge.turns.failed",
		metric.WithDescription("Number of chat turns failed"))
	if err != nil {
		return nil, err
	}

	m.RoutedQueries, err = meter.Int64Counter("concierge.routed_queries",
		metric.WithDescription("Number of queries classified by the router"))
	if err != nil {
		return nil, err
	}

	m.MemoryWrites, err = meter.Int64Counter("concierge.memory.writes",
		metric.WithDescription("Number of long-term memory records written"))
	if err != nil {
		return nil, err
	}

	m.MemoryWriteFailures, err = meter.Int64Counter("concierge.memory.write_failures",
		metric.WithDescription("Number of failed long-term memory writes"))
	if err != nil {
		return nil, err
	}

	m.TurnDuration, err = meter.Float64Histogram("concierge.turn.duration_seconds",
		metric.WithDescription("Chat turn duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
