package auth

import "errors"

// Sentinel errors for authentication.
//
// ErrMissingCredentials means an Authenticator found nothing it understands
// in the request. The others mean a credential was presented and rejected.
var (
	ErrMissingCredentials = errors.New("auth: missing credentials")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrTokenExpired       = errors.New("auth: token expired")
	ErrTokenMalformed     = errors.New("auth: token malformed")
)

// IsRejected reports whether err means a presented credential was refused,
// as opposed to missing credentials or an internal failure.
func IsRejected(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenMalformed)
}
