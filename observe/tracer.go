package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/healthkit/health"
)

// Span attribute keys.
const (
	AttrIndicator = "health.indicator"
	AttrStatus    = "health.status"
	AttrFailed    = "health.failed"
)

// SpanName returns the span name for a check of the named indicator.
// Format: health.check.<name>
func SpanName(indicator string) string {
	return "health.check." + indicator
}

// Tracer wraps OpenTelemetry tracing with per-indicator spans.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for one indicator check.
	StartSpan(ctx context.Context, indicator string) (context.Context, trace.Span)

	// EndSpan records the check result and ends the span.
	EndSpan(span trace.Span, detail health.Detail)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	if t == nil {
		return newNoopTracer()
	}
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, indicator string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanName(indicator),
		trace.WithAttributes(
			attribute.String(AttrIndicator, indicator),
			attribute.Bool(AttrFailed, false),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan marks Down and OutOfService results as span errors.
func (t *tracerImpl) EndSpan(span trace.Span, detail health.Detail) {
	span.SetAttributes(attribute.String(AttrStatus, detail.Status.String()))

	if isFailure(detail.Status) {
		msg, ok := detail.Get("error")
		if !ok {
			msg = detail.Status.String()
		}
		span.SetStatus(codes.Error, msg)
		span.SetAttributes(attribute.Bool(AttrFailed, true))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func isFailure(s health.Status) bool {
	return s == health.StatusDown || s == health.StatusOutOfService
}

type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, indicator string) (context.Context, trace.Span) {
	return t.noop.Start(ctx, SpanName(indicator))
}

func (t *noopTracer) EndSpan(span trace.Span, detail health.Detail) {
	span.End()
}
