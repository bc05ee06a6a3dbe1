package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// DefaultAPIKeyHeader is the header checked by APIKeys.
const DefaultAPIKeyHeader = "X-API-Key"

// APIKeys authenticates static API keys. Only SHA-256 digests of the keys
// are held in memory.
type APIKeys struct {
	header string

	mu   sync.RWMutex
	keys map[string]string // digest -> id
}

// NewAPIKeys creates an empty key set read from header. An empty header
// means DefaultAPIKeyHeader.
func NewAPIKeys(header string) *APIKeys {
	if header == "" {
		header = DefaultAPIKeyHeader
	}
	return &APIKeys{
		header: header,
		keys:   make(map[string]string),
	}
}

// Add registers key under id, replacing any previous id for the same key.
func (a *APIKeys) Add(id, key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.keys[HashAPIKey(key)] = id
}

// Revoke removes key. It reports whether the key was present.
func (a *APIKeys) Revoke(key string) bool {
	digest := HashAPIKey(key)

	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.keys[digest]
	delete(a.keys, digest)
	return ok
}

// Len returns the number of registered keys.
func (a *APIKeys) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.keys)
}

// Name returns "api_key".
func (a *APIKeys) Name() string {
	return string(MethodAPIKey)
}

// Authenticate implements Authenticator.
func (a *APIKeys) Authenticate(_ context.Context, header http.Header) (*Identity, error) {
	key := strings.TrimSpace(header.Get(a.header))
	if key == "" {
		return nil, ErrMissingCredentials
	}

	a.mu.RLock()
	id, ok := a.keys[HashAPIKey(key)]
	a.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown api key", ErrInvalidCredentials)
	}
	return &Identity{Subject: id, Method: MethodAPIKey}, nil
}

// HashAPIKey returns the hex SHA-256 digest of key.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

var _ Authenticator = (*APIKeys)(nil)
