package health

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Details runs every registered indicator concurrently and waits for all of
// them before reducing their results to the worst status.
//
// No timeout is applied here: a hung indicator stalls the run. Callers that
// need an upper bound should set a deadline on ctx, and indicators should
// bound their own latency.
func (h *Health) Details(ctx context.Context) Details {
	start := time.Now()

	results := make([]Detail, len(h.names))

	var g errgroup.Group
	for i, name := range h.names {
		ind := h.indicators[name]
		g.Go(func() error {
			results[i] = h.runCheck(ctx, name, ind)
			return nil
		})
	}
	_ = g.Wait()

	components := make(map[string]Detail, len(results))
	statuses := make([]Status, len(results))
	for i, name := range h.names {
		components[name] = results[i]
		statuses[i] = results[i].Status
	}

	details := Details{
		Status:     Worst(statuses...),
		Components: components,
	}

	if h.hooks.OnRun != nil {
		h.hooks.OnRun(ctx, details, time.Since(start))
	}
	return details
}

// Check runs a single named indicator. Unknown names return an error
// wrapping ErrIndicatorNotFound.
func (h *Health) Check(ctx context.Context, name string) (Detail, error) {
	ind, ok := h.indicators[name]
	if !ok {
		return Detail{}, fmt.Errorf("%w: %q", ErrIndicatorNotFound, name)
	}
	return h.runCheck(ctx, name, ind), nil
}

// runCheck isolates a panicking indicator so it cannot take the run down.
func (h *Health) runCheck(ctx context.Context, name string, ind Indicator) (detail Detail) {
	defer func() {
		if r := recover(); r != nil {
			if h.hooks.OnPanic != nil {
				h.hooks.OnPanic(ctx, name, r)
			}
			detail = Down()
		}
	}()
	return ind.Check(ctx)
}

// Indicator returns the aggregate as a single Indicator.
// This allows a Health handle to be nested inside another one.
func (h *Health) Indicator() Indicator {
	return &aggregateIndicator{health: h}
}

type aggregateIndicator struct {
	health *Health
}

func (a *aggregateIndicator) Name() string {
	return "aggregate"
}

func (a *aggregateIndicator) Check(ctx context.Context) Detail {
	details := a.health.Details(ctx)

	result := NewDetail(details.Status)
	if len(details.Components) > 0 {
		result.Details = make(map[string]string, len(details.Components))
		for name, d := range details.Components {
			result.Details[name] = d.Status.String()
		}
	}
	return result
}
