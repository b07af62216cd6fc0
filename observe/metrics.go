package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CheckMetrics records health check telemetry.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: recording is best-effort and must not panic.
// - A nil *CheckMetrics is valid and records nothing.
type CheckMetrics struct {
	totalCount     metric.Int64Counter
	unhealthyCount metric.Int64Counter
	durationHist   metric.Float64Histogram
}

// NewCheckMetrics creates a CheckMetrics instance with the given meter.
func NewCheckMetrics(meter metric.Meter) (*CheckMetrics, error) {
	totalCount, err := meter.Int64Counter(
		"health.check.total",
		metric.WithDescription("Total number of component health checks"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	unhealthyCount, err := meter.Int64Counter(
		"health.check.unhealthy",
		metric.WithDescription("Total number of unhealthy component results"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"health.check.duration_ms",
		metric.WithDescription("Component health check duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &CheckMetrics{
		totalCount:     totalCount,
		unhealthyCount: unhealthyCount,
		durationHist:   durationHist,
	}, nil
}

// Record records the outcome of one component health check.
func (m *CheckMetrics) Record(ctx context.Context, component, status string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	opt := metric.WithAttributes(
		attribute.String("component", component),
		attribute.String("status", status),
	)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil || status == "unhealthy" {
		m.unhealthyCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}
