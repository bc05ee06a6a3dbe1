package observe

import (
	"errors"
	"slices"

	"github.com/jonwraymond/healthkit/observe/exporters"
)

var (
	ErrMissingServiceName     = errors.New("observe: service name is required")
	ErrInvalidSamplePct       = errors.New("observe: sample percentage must be between 0.0 and 1.0")
	ErrInvalidTracingExporter = errors.New("observe: unknown tracing exporter")
	ErrInvalidMetricsExporter = errors.New("observe: unknown metrics exporter")
	ErrInvalidLogLevel        = errors.New("observe: unknown log level")

	// ErrNilObserver is returned by MiddlewareFromObserver.
	ErrNilObserver = errors.New("observe: observer is nil")
)

// Sampling bounds for TracingConfig.SamplePct.
const (
	MinSamplePct = 0.0
	MaxSamplePct = 1.0
)

// Accepted exporter names, shared with the exporters package.
var (
	ValidTracingExporters = slices.Clone(exporters.TracingExporters)
	ValidMetricsExporters = slices.Clone(exporters.MetricsExporters)
)

// ValidLogLevels lists the levels NewLogger understands. Empty means info.
var ValidLogLevels = []string{"debug", "info", "warn", "error", ""}

// RedactedFields are logged as "[REDACTED]". Connection strings embed
// passwords, so dsn is listed alongside the credential keys.
var RedactedFields = []string{
	"password",
	"secret",
	"token",
	"api_key",
	"apiKey",
	"credential",
	"dsn",
	"jwt_secret",
	"authorization",
}
