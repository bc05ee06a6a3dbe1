package auth

import (
	"encoding/json"
	"net/http"
)

// Authenticate runs authn against r. It returns nil unless authentication
// succeeds; internal errors count as failures.
func Authenticate(authn Authenticator, r *http.Request) *Identity {
	if authn == nil {
		return nil
	}
	id, err := authn.Authenticate(r.Context(), r.Header)
	if err != nil {
		return nil
	}
	return id
}

// Authorized returns a predicate reporting whether r carries valid
// credentials for authn, or already carries an identity in its context. It
// plugs into health.WithComponentVisibility.
func Authorized(authn Authenticator) func(*http.Request) bool {
	return func(r *http.Request) bool {
		if IdentityFromContext(r.Context()) != nil {
			return true
		}
		return Authenticate(authn, r) != nil
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// Require rejects requests without valid credentials with 401 and a JSON
// error body. Accepted requests carry the identity in their context.
func Require(authn Authenticator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Authenticate(authn, r)
		if id == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("WWW-Authenticate", `Bearer realm="health"`)
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(errorBody{Error: ErrInvalidCredentials.Error()})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}
