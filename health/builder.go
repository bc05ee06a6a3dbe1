package health

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"
)

// Hooks receive notifications from the aggregator. All fields are optional.
//
// Hooks run on the request path and must return quickly.
type Hooks struct {
	// OnRun is called after every aggregation run with its result and duration.
	OnRun func(ctx context.Context, details Details, elapsed time.Duration)

	// OnPanic is called when an indicator panics. The indicator is reported as Down.
	OnPanic func(ctx context.Context, name string, recovered any)
}

// Builder accumulates indicators and produces an immutable Health handle.
//
// A Builder is not safe for concurrent use. Re-registering a name replaces the
// earlier indicator without error; use BuildStrict to reject duplicates.
type Builder struct {
	indicators map[string]Indicator
	hooks      Hooks
	duplicates []string
	nils       int
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{indicators: make(map[string]Indicator)}
}

// WithIndicator registers ind under ind.Name(). Nil indicators are ignored.
func (b *Builder) WithIndicator(ind Indicator) *Builder {
	if ind == nil {
		b.nils++
		return b
	}

	name := ind.Name()
	if _, exists := b.indicators[name]; exists {
		b.duplicates = append(b.duplicates, name)
	}
	b.indicators[name] = ind
	return b
}

// WithIndicators registers each indicator in order.
func (b *Builder) WithIndicators(inds ...Indicator) *Builder {
	for _, ind := range inds {
		b.WithIndicator(ind)
	}
	return b
}

// WithHooks sets the aggregator hooks.
func (b *Builder) WithHooks(hooks Hooks) *Builder {
	b.hooks = hooks
	return b
}

// Build returns a Health handle holding a snapshot of the registered
// indicators. Later builder calls do not affect the returned handle.
func (b *Builder) Build() *Health {
	indicators := maps.Clone(b.indicators)
	if indicators == nil {
		indicators = make(map[string]Indicator)
	}
	return &Health{
		indicators: indicators,
		names:      slices.Sorted(maps.Keys(indicators)),
		hooks:      b.hooks,
	}
}

// BuildStrict is like Build but fails when a name was registered more than
// once or a nil indicator was passed.
func (b *Builder) BuildStrict() (*Health, error) {
	var errs []error
	if b.nils > 0 {
		errs = append(errs, fmt.Errorf("%w (%d ignored)", ErrNilIndicator, b.nils))
	}
	for _, name := range b.duplicates {
		errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateIndicator, name))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return b.Build(), nil
}

// Health is the shareable, read-only set of registered indicators.
//
// Contract:
// - Concurrency: safe for concurrent use; no state is mutated after Build.
// - Context: Details and Check pass ctx to indicators unchanged.
// - Errors: aggregation never fails; only Check reports unknown names.
type Health struct {
	indicators map[string]Indicator
	names      []string
	hooks      Hooks
}

// Names returns the registered indicator names in sorted order.
func (h *Health) Names() []string {
	return slices.Clone(h.names)
}

// Len returns the number of registered indicators.
func (h *Health) Len() int {
	return len(h.names)
}
