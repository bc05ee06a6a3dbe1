package resilience

import (
	"time"

	"github.com/jonwraymond/healthkit/health"
)

// Option adds one wrapper to Decorate.
type Option func(*policy)

type policy struct {
	timeout  time.Duration
	bulkhead *Bulkhead
}

// UseTimeout bounds each check to d.
func UseTimeout(d time.Duration) Option {
	return func(p *policy) {
		p.timeout = d
	}
}

// UseBulkhead limits concurrent checks with b.
func UseBulkhead(b *Bulkhead) Option {
	return func(p *policy) {
		p.bulkhead = b
	}
}

// Decorate wraps ind with the configured patterns.
//
// The timeout, when configured, is outermost and the bulkhead sits inside it.
// The timeout runs the bulkhead on its own goroutine, so a check abandoned at
// its deadline keeps its slot until it really returns. Checks hung against a
// resource therefore count toward MaxConcurrent, and further checks report
// Down with MsgBulkheadFull instead of piling onto the resource. Time spent
// waiting for a slot (BulkheadConfig.MaxWait) counts against the timeout.
func Decorate(ind health.Indicator, opts ...Option) health.Indicator {
	var p policy
	for _, opt := range opts {
		opt(&p)
	}

	if p.bulkhead != nil {
		ind = WithBulkhead(ind, p.bulkhead)
	}
	if p.timeout > 0 {
		ind = WithTimeout(ind, p.timeout)
	}
	return ind
}
