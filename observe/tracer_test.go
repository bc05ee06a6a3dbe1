package observe

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/healthkit/health"
)

func newRecordingTracer() (*tracetest.SpanRecorder, Tracer) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return recorder, NewTracer(tp.Tracer("test"))
}

func attrMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Value
	}
	return m
}

func TestSpanName(t *testing.T) {
	if got := SpanName("postgres"); got != "health.check.postgres" {
		t.Errorf("expected health.check.postgres, got %q", got)
	}
}

// TestTracer_SpanAttributes verifies indicator and status attributes.
func TestTracer_SpanAttributes(t *testing.T) {
	recorder, tr := newRecordingTracer()

	_, span := tr.StartSpan(context.Background(), "postgres")
	tr.EndSpan(span, health.Up())

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	s := spans[0]
	if s.Name() != "health.check.postgres" {
		t.Errorf("expected span name health.check.postgres, got %q", s.Name())
	}

	attrs := attrMap(s.Attributes())
	if v := attrs[AttrIndicator].AsString(); v != "postgres" {
		t.Errorf("expected %s=postgres, got %q", AttrIndicator, v)
	}
	if v := attrs[AttrStatus].AsString(); v != "Up" {
		t.Errorf("expected %s=Up, got %q", AttrStatus, v)
	}
	if attrs[AttrFailed].AsBool() {
		t.Errorf("expected %s=false", AttrFailed)
	}
	if s.Status().Code != codes.Ok {
		t.Errorf("expected Ok status, got %v", s.Status().Code)
	}
}

func TestTracer_FailureStatuses(t *testing.T) {
	tests := []struct {
		name    string
		detail  health.Detail
		code    codes.Code
		message string
	}{
		{"down with error", health.Down().WithDetail("error", "connection refused"), codes.Error, "connection refused"},
		{"down bare", health.Down(), codes.Error, "Down"},
		{"out of service", health.OutOfService(), codes.Error, "OutOfService"},
		{"unknown", health.Unknown(), codes.Ok, ""},
		{"custom", health.NewDetail(health.Custom("Degraded")), codes.Ok, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder, tr := newRecordingTracer()
			_, span := tr.StartSpan(context.Background(), "dep")
			tr.EndSpan(span, tc.detail)

			s := recorder.Ended()[0]
			if s.Status().Code != tc.code {
				t.Errorf("expected code %v, got %v", tc.code, s.Status().Code)
			}
			if s.Status().Description != tc.message {
				t.Errorf("expected description %q, got %q", tc.message, s.Status().Description)
			}
			failed := attrMap(s.Attributes())[AttrFailed].AsBool()
			if failed != (tc.code == codes.Error) {
				t.Errorf("expected %s=%v", AttrFailed, tc.code == codes.Error)
			}
		})
	}
}

func TestTracer_ChildSpan(t *testing.T) {
	recorder, tr := newRecordingTracer()

	ctx, parent := tr.StartSpan(context.Background(), "parent")
	_, child := tr.StartSpan(ctx, "child")
	tr.EndSpan(child, health.Up())
	tr.EndSpan(parent, health.Up())

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Parent().SpanID() != spans[1].SpanContext().SpanID() {
		t.Error("expected child span to have parent span as parent")
	}
}

func TestNewTracer_NilUsesNoop(t *testing.T) {
	tr := NewTracer(nil)
	_, span := tr.StartSpan(context.Background(), "dep")
	tr.EndSpan(span, health.Down())
	if span.SpanContext().IsValid() {
		t.Error("expected noop span")
	}
}

func traceSpanValid(ctx context.Context) bool {
	return trace.SpanFromContext(ctx).SpanContext().IsValid()
}
