package secret

import "errors"

var (
	// ErrMissingEnv is returned when a ${VAR} reference names an unset variable.
	ErrMissingEnv = errors.New("secret: missing required environment variables")

	// ErrUnknownProvider is returned for a secretref with an unregistered provider.
	ErrUnknownProvider = errors.New("secret: provider not registered")

	// ErrNotFound is returned by a provider that has no value for a ref.
	ErrNotFound = errors.New("secret: not found")

	// ErrEmptyValue is returned in strict mode when a provider resolves to "".
	ErrEmptyValue = errors.New("secret: provider returned empty value")
)
