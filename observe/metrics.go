package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/healthkit/health"
)

// Metrics records health check metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCheck records one indicator check.
	RecordCheck(ctx context.Context, indicator string, status health.Status, duration time.Duration)

	// RecordRun records one aggregated run.
	RecordRun(ctx context.Context, status health.Status, duration time.Duration)
}

type metricsImpl struct {
	checkTotal    metric.Int64Counter
	checkDown     metric.Int64Counter
	checkDuration metric.Float64Histogram
	runTotal      metric.Int64Counter
	runDuration   metric.Float64Histogram
}

// NewMetrics creates the health instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	return newMetrics(meter)
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	checkTotal, err := meter.Int64Counter(
		"health.check.total",
		metric.WithDescription("Total number of indicator checks"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	checkDown, err := meter.Int64Counter(
		"health.check.down",
		metric.WithDescription("Indicator checks that reported Down or OutOfService"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	checkDuration, err := meter.Float64Histogram(
		"health.check.duration_ms",
		metric.WithDescription("Indicator check duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	runTotal, err := meter.Int64Counter(
		"health.run.total",
		metric.WithDescription("Total number of aggregated health runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"health.run.duration_ms",
		metric.WithDescription("Aggregated health run duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		checkTotal:    checkTotal,
		checkDown:     checkDown,
		checkDuration: checkDuration,
		runTotal:      runTotal,
		runDuration:   runDuration,
	}, nil
}

func (m *metricsImpl) RecordCheck(ctx context.Context, indicator string, status health.Status, duration time.Duration) {
	opt := metric.WithAttributes(
		attribute.String(AttrIndicator, indicator),
		attribute.String(AttrStatus, status.String()),
	)

	m.checkTotal.Add(ctx, 1, opt)
	if isFailure(status) {
		m.checkDown.Add(ctx, 1, opt)
	}
	m.checkDuration.Record(ctx, milliseconds(duration), opt)
}

func (m *metricsImpl) RecordRun(ctx context.Context, status health.Status, duration time.Duration) {
	opt := metric.WithAttributes(attribute.String(AttrStatus, status.String()))

	m.runTotal.Add(ctx, 1, opt)
	m.runDuration.Record(ctx, milliseconds(duration), opt)
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

type noopMetrics struct{}

func (noopMetrics) RecordCheck(context.Context, string, health.Status, time.Duration) {}
func (noopMetrics) RecordRun(context.Context, health.Status, time.Duration)           {}
