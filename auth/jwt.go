package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const bearerPrefix = "Bearer "

// JWTConfig configures the JWT authenticator.
type JWTConfig struct {
	// Secret is the HMAC key. Required.
	Secret []byte

	// Issuer, when set, must match the iss claim.
	Issuer string

	// Audience, when set, must be present in the aud claim.
	Audience string

	// Leeway tolerates clock skew when checking exp and nbf.
	Leeway time.Duration
}

// JWT authenticates HMAC-signed bearer tokens from the Authorization header.
type JWT struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWT creates a JWT authenticator. Only HS256, HS384 and HS512 are
// accepted.
func NewJWT(config JWTConfig) *JWT {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	}
	if config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(config.Issuer))
	}
	if config.Audience != "" {
		opts = append(opts, jwt.WithAudience(config.Audience))
	}
	if config.Leeway > 0 {
		opts = append(opts, jwt.WithLeeway(config.Leeway))
	}

	return &JWT{
		secret: config.Secret,
		parser: jwt.NewParser(opts...),
	}
}

// Name returns "jwt".
func (a *JWT) Name() string {
	return string(MethodJWT)
}

// Authenticate implements Authenticator.
func (a *JWT) Authenticate(_ context.Context, header http.Header) (*Identity, error) {
	token, ok := strings.CutPrefix(header.Get("Authorization"), bearerPrefix)
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return nil, ErrMissingCredentials
	}

	var claims jwt.RegisteredClaims
	_, err := a.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, ErrTokenMalformed
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	id := &Identity{Subject: claims.Subject, Method: MethodJWT}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// Sign issues an HS256 token for subject, valid for ttl. Operators use it to
// mint tokens for probes.
func (a *JWT) Sign(subject string, ttl time.Duration) (string, error) {
	return SignHS256(a.secret, subject, ttl)
}

// SignHS256 issues an HS256 token for subject, valid for ttl.
func SignHS256(secret []byte, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

var _ Authenticator = (*JWT)(nil)
