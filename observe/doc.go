// Package observe instruments health indicators with OpenTelemetry traces,
// metrics and structured logs.
//
// Middleware.Wrap decorates a single indicator; Middleware.Hooks plugs into a
// health.Builder to observe whole runs and recovered panics. The package does
// no I/O beyond exporter setup.
package observe
