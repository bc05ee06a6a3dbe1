package observe

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "valid",
			cfg: Config{
				ServiceName: "healthd",
				Version:     "1.0.0",
				Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.0},
				Metrics:     MetricsConfig{Enabled: true, Exporter: "prometheus"},
				Logging:     LoggingConfig{Enabled: true, Level: "info"},
			},
		},
		{
			name:    "missing service name",
			cfg:     Config{Version: "1.0.0"},
			wantErr: ErrMissingServiceName,
		},
		{
			name:    "unknown tracing exporter",
			cfg:     Config{ServiceName: "s", Tracing: TracingConfig{Enabled: true, Exporter: "zipkin"}},
			wantErr: ErrInvalidTracingExporter,
		},
		{
			name:    "sample pct above range",
			cfg:     Config{ServiceName: "s", Tracing: TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.5}},
			wantErr: ErrInvalidSamplePct,
		},
		{
			name:    "sample pct negative",
			cfg:     Config{ServiceName: "s", Tracing: TracingConfig{Enabled: true, Exporter: "none", SamplePct: -0.1}},
			wantErr: ErrInvalidSamplePct,
		},
		{
			name:    "unknown metrics exporter",
			cfg:     Config{ServiceName: "s", Metrics: MetricsConfig{Enabled: true, Exporter: "badvalue"}},
			wantErr: ErrInvalidMetricsExporter,
		},
		{
			name:    "unknown log level",
			cfg:     Config{ServiceName: "s", Logging: LoggingConfig{Enabled: true, Level: "trace"}},
			wantErr: ErrInvalidLogLevel,
		},
		{
			name: "disabled subsystems are not validated",
			cfg: Config{
				ServiceName: "s",
				Tracing:     TracingConfig{Exporter: "zipkin"},
				Logging:     LoggingConfig{Level: "trace"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestNewObserver_DisabledNoop(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "healthd"})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}
	if obs.Tracer() == nil || obs.Meter() == nil || obs.Logger() == nil {
		t.Fatal("expected non-nil telemetry primitives")
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestNewObserver_InvalidConfig(t *testing.T) {
	_, err := NewObserver(context.Background(), Config{})
	if !errors.Is(err, ErrMissingServiceName) {
		t.Fatalf("expected ErrMissingServiceName, got %v", err)
	}
}

func TestNewObserver_PrometheusRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := NewObserver(context.Background(), Config{
		ServiceName: "healthd",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "prometheus", Registerer: reg},
	})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}
	t.Cleanup(func() { _ = obs.Shutdown(context.Background()) })

	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		t.Fatalf("MiddlewareFromObserver failed: %v", err)
	}

	mw.Wrap(healthStatic("postgres")).Check(context.Background())

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	if !slices.ContainsFunc(names, func(n string) bool { return strings.HasPrefix(n, "health_check_total") }) {
		t.Errorf("expected health_check_total in registry, got %v", names)
	}
}

func TestConfigValidate_ReportsAllProblems(t *testing.T) {
	err := (&Config{
		Tracing: TracingConfig{Enabled: true, Exporter: "zipkin", SamplePct: 2},
		Logging: LoggingConfig{Enabled: true, Level: "trace"},
	}).Validate()

	for _, want := range []error{ErrMissingServiceName, ErrInvalidTracingExporter, ErrInvalidSamplePct, ErrInvalidLogLevel} {
		if !errors.Is(err, want) {
			t.Errorf("expected %v in %v", want, err)
		}
	}
}

func TestObserver_ShutdownIdempotent(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{
		ServiceName: "healthd",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "prometheus", Registerer: prometheus.NewRegistry()},
	})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}
	first := obs.Shutdown(context.Background())
	if second := obs.Shutdown(context.Background()); second != first {
		t.Errorf("second Shutdown = %v, want %v", second, first)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.25, "TraceIDRatioBased{0.25}"},
	}
	for _, tc := range tests {
		desc := sampler(tc.pct).Description()
		if !strings.HasPrefix(desc, "ParentBased{root:"+tc.want) {
			t.Errorf("sampler(%v) = %s, want ParentBased root %s", tc.pct, desc, tc.want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("healthd")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig is invalid: %v", err)
	}
	if cfg.Tracing.Enabled || cfg.Metrics.Enabled || !cfg.Logging.Enabled {
		t.Errorf("DefaultConfig subsystems = %+v", cfg)
	}
}
