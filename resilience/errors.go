package resilience

import "errors"

// ErrBulkheadFull is returned by Bulkhead.Acquire when no slot frees up
// within MaxWait.
var ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")

// ErrTimeout is the cancellation cause attached to a check's context once its
// budget runs out.
var ErrTimeout = errors.New("resilience: check deadline exceeded")

// ErrorKey is the detail key the wrappers write their failure message under.
const ErrorKey = "error"

// Failure messages written under ErrorKey.
const (
	MsgTimedOut     = "check timed out"
	MsgCanceled     = "check canceled"
	MsgBulkheadFull = "bulkhead at capacity"
)
