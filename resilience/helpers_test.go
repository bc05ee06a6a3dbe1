package resilience

import (
	"context"
	"sync/atomic"

	"github.com/jonwraymond/healthkit/health"
)

// countingIndicator returns results in order, repeating the last one.
type countingIndicator struct {
	name    string
	results []health.Detail
	calls   atomic.Int32
}

func newCounting(name string, results ...health.Detail) *countingIndicator {
	return &countingIndicator{name: name, results: results}
}

func (c *countingIndicator) Name() string { return c.name }

func (c *countingIndicator) Check(context.Context) health.Detail {
	n := int(c.calls.Add(1)) - 1
	if n >= len(c.results) {
		n = len(c.results) - 1
	}
	return c.results[n]
}

// blockingIndicator blocks until release is closed, ignoring ctx.
type blockingIndicator struct {
	name    string
	release chan struct{}
	started chan struct{}
}

func newBlocking(name string) *blockingIndicator {
	return &blockingIndicator{
		name:    name,
		release: make(chan struct{}),
		started: make(chan struct{}, 16),
	}
}

func (b *blockingIndicator) Name() string { return b.name }

func (b *blockingIndicator) Check(context.Context) health.Detail {
	b.started <- struct{}{}
	<-b.release
	return health.Up()
}
