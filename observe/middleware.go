package observe

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/jonwraymond/healthkit/health"
)

// Middleware instruments indicators with tracing, metrics and logging.
//
// Contract:
//   - Concurrency: wrapped indicators are safe for concurrent use if the
//     underlying indicator is.
//   - Context: the span context is passed to the wrapped indicator.
//   - Ownership: the Detail returned by the wrapped indicator is passed through
//     unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware. Nil components are replaced by
// no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Logger returns the middleware's logger.
func (m *Middleware) Logger() Logger {
	return m.logger
}

// Wrap returns an indicator with the same name that records a span, metrics
// and a log entry for every check.
func (m *Middleware) Wrap(ind health.Indicator) health.Indicator {
	return &instrumented{next: ind, mw: m}
}

// WrapAll wraps every indicator in inds.
func (m *Middleware) WrapAll(inds ...health.Indicator) []health.Indicator {
	out := make([]health.Indicator, 0, len(inds))
	for _, ind := range inds {
		if ind == nil {
			continue
		}
		out = append(out, m.Wrap(ind))
	}
	return out
}

// Hooks returns builder hooks that record every aggregated run and log
// recovered indicator panics.
func (m *Middleware) Hooks() health.Hooks {
	return health.Hooks{
		OnRun: func(ctx context.Context, details health.Details, duration time.Duration) {
			m.metrics.RecordRun(ctx, details.Status, duration)

			fields := []Field{
				{Key: AttrStatus, Value: details.Status.String()},
				{Key: "components", Value: len(details.Components)},
				{Key: "duration_ms", Value: milliseconds(duration)},
			}
			if isFailure(details.Status) {
				m.logger.Warn(ctx, "health run unhealthy", fields...)
				return
			}
			m.logger.Debug(ctx, "health run completed", fields...)
		},
		OnPanic: func(ctx context.Context, name string, recovered any) {
			m.logger.WithIndicator(name).Error(ctx, "health indicator panicked",
				Field{Key: "panic", Value: fmt.Sprint(recovered)},
			)
		},
	}
}

type instrumented struct {
	next health.Indicator
	mw   *Middleware
}

func (i *instrumented) Name() string {
	return i.next.Name()
}

func (i *instrumented) Check(ctx context.Context) health.Detail {
	name := i.next.Name()
	ctx, span := i.mw.tracer.StartSpan(ctx, name)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			span.SetStatus(codes.Error, "panic")
			span.End()
			i.mw.metrics.RecordCheck(ctx, name, health.StatusDown, time.Since(start))
			panic(r)
		}
	}()

	detail := i.next.Check(ctx)
	duration := time.Since(start)

	i.mw.tracer.EndSpan(span, detail)
	i.mw.metrics.RecordCheck(ctx, name, detail.Status, duration)

	logger := i.mw.logger.WithIndicator(name)
	fields := []Field{
		{Key: AttrStatus, Value: detail.Status.String()},
		{Key: "duration_ms", Value: milliseconds(duration)},
	}
	if msg, ok := detail.Get("error"); ok {
		fields = append(fields, Field{Key: "error", Value: msg})
	}

	if isFailure(detail.Status) {
		logger.Warn(ctx, "health check failed", fields...)
	} else {
		logger.Debug(ctx, "health check completed", fields...)
	}
	return detail
}
