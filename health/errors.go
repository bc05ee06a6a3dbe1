package health

import "errors"

var (
	// ErrIndicatorNotFound indicates no indicator is registered under a name.
	ErrIndicatorNotFound = errors.New("health: indicator not found")

	// ErrDuplicateIndicator indicates a name was registered more than once.
	// It is only reported by Builder.BuildStrict.
	ErrDuplicateIndicator = errors.New("health: duplicate indicator name")

	// ErrNilIndicator indicates a nil indicator was passed to the builder.
	ErrNilIndicator = errors.New("health: indicator is nil")

	// ErrInvalidStatus indicates a status could not be decoded.
	ErrInvalidStatus = errors.New("health: invalid status")

	// ErrNotInstalled indicates no Health handle was found in the request context.
	ErrNotInstalled = errors.New("health: handle not installed in context")
)
