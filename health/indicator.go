package health

import "context"

// Indicator is the interface for health probes.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use; the same
//   indicator is checked by every in-flight request.
// - Context: Check should honor cancellation/deadlines and bound its own latency.
//   The aggregator never cancels a slow indicator.
// - Errors: Check must not panic or propagate failures. Any probe failure is
//   reported as Down, optionally with diagnostic details.
type Indicator interface {
	// Name returns the stable identifier used as the component key.
	Name() string

	// Check performs the probe and returns its result.
	Check(ctx context.Context) Detail
}

// IndicatorFunc is an adapter to allow ordinary functions to be used as Indicators.
type IndicatorFunc struct {
	name string
	fn   func(context.Context) Detail
}

// NewIndicatorFunc creates a new IndicatorFunc.
func NewIndicatorFunc(name string, fn func(context.Context) Detail) *IndicatorFunc {
	return &IndicatorFunc{name: name, fn: fn}
}

// Name returns the name of this indicator.
func (f *IndicatorFunc) Name() string {
	return f.name
}

// Check performs the health check.
func (f *IndicatorFunc) Check(ctx context.Context) Detail {
	return f.fn(ctx)
}

// Pinger is implemented by resources that support a cheap round-trip probe,
// such as connection pools.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to the Pinger interface.
type PingerFunc func(ctx context.Context) error

// Ping calls f(ctx).
func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// PingIndicator reports Up when its pinger succeeds and Down otherwise.
type PingIndicator struct {
	name   string
	pinger Pinger
}

// NewPingIndicator creates an indicator backed by a Pinger.
func NewPingIndicator(name string, pinger Pinger) *PingIndicator {
	return &PingIndicator{name: name, pinger: pinger}
}

// Name returns the name of this indicator.
func (p *PingIndicator) Name() string {
	return p.name
}

// Check pings the underlying resource.
func (p *PingIndicator) Check(ctx context.Context) Detail {
	if err := p.pinger.Ping(ctx); err != nil {
		return Down()
	}
	return Up()
}

// staticIndicator always returns the same detail.
type staticIndicator struct {
	name   string
	detail Detail
}

// StaticIndicator creates an indicator that always reports detail. It is
// useful for maintenance switches (OutOfService) and tests.
func StaticIndicator(name string, detail Detail) Indicator {
	return &staticIndicator{name: name, detail: detail}
}

func (s *staticIndicator) Name() string {
	return s.name
}

func (s *staticIndicator) Check(context.Context) Detail {
	return s.detail
}

// Ensure implementations satisfy Indicator
var (
	_ Indicator = (*IndicatorFunc)(nil)
	_ Indicator = (*PingIndicator)(nil)
	_ Indicator = (*staticIndicator)(nil)
)
