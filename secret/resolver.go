package secret

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

const refPrefix = "secretref:"

// refPattern matches a reference embedded in a longer value, such as the
// password part of a DSN. A reference ends at whitespace or at "@".
var refPattern = regexp.MustCompile(`secretref:([a-z]+):([^\s@]+)`)

// Resolver turns configuration values into their final form. ${VAR}
// references are expanded first, then every secretref is replaced by its
// provider's answer.
type Resolver struct {
	providers map[string]Provider
	strict    bool
}

// NewResolver returns a resolver backed by providers. With strict set, a
// provider answering "" is an error.
func NewResolver(strict bool, providers ...Provider) *Resolver {
	r := &Resolver{providers: make(map[string]Provider, len(providers)), strict: strict}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// DefaultResolver is strict and knows the env and file providers.
func DefaultResolver() *Resolver {
	return NewResolver(true, EnvProvider{}, FileProvider{})
}

// Register adds p, replacing a provider of the same name. Nil is ignored.
func (r *Resolver) Register(p Provider) {
	if p != nil {
		r.providers[p.Name()] = p
	}
}

// ParseSecretRef splits a value of the exact form secretref:<provider>:<ref>.
func ParseSecretRef(value string) (provider string, ref string, ok bool) {
	rest, found := strings.CutPrefix(value, refPrefix)
	if !found {
		return "", "", false
	}
	provider, ref, ok = strings.Cut(rest, ":")
	if !ok || provider == "" || ref == "" {
		return "", "", false
	}
	return provider, ref, true
}

// ResolveValue expands env references in value and resolves any secretrefs.
// A value that is one whole reference may resolve to anything, including
// characters the inline form cannot carry.
func (r *Resolver) ResolveValue(ctx context.Context, value string) (string, error) {
	expanded, err := ExpandEnvStrict(value)
	if err != nil {
		return "", err
	}
	if provider, ref, ok := ParseSecretRef(expanded); ok {
		return r.lookup(ctx, provider, ref)
	}
	if !strings.Contains(expanded, refPrefix) {
		return expanded, nil
	}

	var firstErr error
	out := refPattern.ReplaceAllStringFunc(expanded, func(m string) string {
		if firstErr != nil {
			return m
		}
		sub := refPattern.FindStringSubmatch(m)
		v, err := r.lookup(ctx, sub[1], sub[2])
		if err != nil {
			firstErr = err
			return m
		}
		return v
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// ResolveSlice resolves every entry. Errors name the failing index.
func (r *Resolver) ResolveSlice(ctx context.Context, values []string) ([]string, error) {
	out := make([]string, 0, len(values))
	for i, v := range values {
		s, err := r.ResolveValue(ctx, v)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// ResolveInPlace overwrites each non-empty field with its resolved value.
// It stops at the first failure.
func (r *Resolver) ResolveInPlace(ctx context.Context, fields ...*string) error {
	for _, f := range fields {
		if f == nil || *f == "" {
			continue
		}
		s, err := r.ResolveValue(ctx, *f)
		if err != nil {
			return err
		}
		*f = s
	}
	return nil
}

func (r *Resolver) lookup(ctx context.Context, provider, ref string) (string, error) {
	p, ok := r.providers[provider]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	v, err := p.Resolve(ctx, ref)
	switch {
	case err != nil:
		return "", err
	case v == "" && r.strict:
		return "", fmt.Errorf("%w: %s%s:%s", ErrEmptyValue, refPrefix, provider, ref)
	}
	return v, nil
}
