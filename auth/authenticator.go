package auth

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Method names the credential kind that produced an Identity.
type Method string

const (
	MethodAPIKey Method = "api_key"
	MethodJWT    Method = "jwt"
)

// Identity is an authenticated caller.
type Identity struct {
	// Subject is the API key id or the token subject.
	Subject string

	Method Method

	// ExpiresAt is the token expiry (zero = never).
	ExpiresAt time.Time
}

// Authenticator verifies the credentials carried in request headers.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: ErrMissingCredentials when the headers carry nothing this
//   authenticator understands; an error satisfying IsRejected when a
//   credential is refused; anything else is an internal failure.
type Authenticator interface {
	Name() string
	Authenticate(ctx context.Context, header http.Header) (*Identity, error)
}

// chain tries authenticators in order.
type chain []Authenticator

// Chain combines authenticators. The first success wins; an internal error
// stops the sequence. When every authenticator declines, the last rejection
// is returned, or ErrMissingCredentials when none saw a credential. Nil
// entries are dropped.
func Chain(authns ...Authenticator) Authenticator {
	c := make(chain, 0, len(authns))
	for _, a := range authns {
		if a != nil {
			c = append(c, a)
		}
	}
	return c
}

// Name returns "chain".
func (c chain) Name() string {
	return "chain"
}

// Authenticate implements Authenticator.
func (c chain) Authenticate(ctx context.Context, header http.Header) (*Identity, error) {
	rejection := ErrMissingCredentials
	for _, a := range c {
		id, err := a.Authenticate(ctx, header)
		switch {
		case err == nil:
			return id, nil
		case errors.Is(err, ErrMissingCredentials):
		case IsRejected(err):
			rejection = err
		default:
			return nil, err
		}
	}
	return nil, rejection
}
