package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/jonwraymond/healthkit/health"
)

// DefaultCheckTimeout bounds a check when no timeout is configured.
const DefaultCheckTimeout = 5 * time.Second

// TimeoutConfig configures the timeout wrapper.
type TimeoutConfig struct {
	// Timeout is the maximum duration for the operation.
	// Default: 5 seconds
	Timeout time.Duration
}

// Timeout wraps operations with a timeout.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a new timeout wrapper.
func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Timeout <= 0 {
		config.Timeout = DefaultCheckTimeout
	}
	return &Timeout{config: config}
}

// Config returns the timeout configuration.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}

// Execute runs op with a timeout. It returns ErrTimeout when the deadline
// passes before op returns, and the parent's error when ctx ends first.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeoutCause(ctx, t.config.Timeout, ErrTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(context.Cause(ctx), ErrTimeout) {
			return ErrTimeout
		}
		return ctx.Err()
	}
}

// WithTimeout bounds ind to d. A check that has not returned by then reports
// Down with an "error" detail; the abandoned check keeps running until it
// observes its cancelled context. A cancelled parent also reports Down.
func WithTimeout(ind health.Indicator, d time.Duration) health.Indicator {
	return &timeoutIndicator{next: ind, timeout: NewTimeout(TimeoutConfig{Timeout: d})}
}

type timeoutIndicator struct {
	next    health.Indicator
	timeout *Timeout
}

type checkResult struct {
	detail    health.Detail
	recovered any
	panicked  bool
}

func (t *timeoutIndicator) Name() string {
	return t.next.Name()
}

func (t *timeoutIndicator) Check(ctx context.Context) health.Detail {
	ctx, cancel := context.WithTimeoutCause(ctx, t.timeout.config.Timeout, ErrTimeout)
	defer cancel()

	done := make(chan checkResult, 1)
	go func() {
		var res checkResult
		defer func() {
			if r := recover(); r != nil {
				res = checkResult{recovered: r, panicked: true}
			}
			done <- res
		}()
		res.detail = t.next.Check(ctx)
	}()

	select {
	case res := <-done:
		if res.panicked {
			// Re-raise on the caller's goroutine so the aggregator can isolate it.
			panic(res.recovered)
		}
		return res.detail
	case <-ctx.Done():
		if errors.Is(context.Cause(ctx), ErrTimeout) {
			return health.Down().
				WithDetail(ErrorKey, MsgTimedOut).
				WithDetail("timeout", t.timeout.config.Timeout.String())
		}
		return health.Down().WithDetail(ErrorKey, MsgCanceled)
	}
}
