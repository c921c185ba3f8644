// Package auth supplies bearer credentials to the PokeForge client.
package auth

import (
	"context"
	"sync/atomic"
)

// TokenFunc produces a bearer token on demand. An empty token means
// the request is sent without an Authorization header.
type TokenFunc func(ctx context.Context) (string, error)

// Credential is either a static token or a token-producing function.
// The zero value carries no credential.
type Credential struct {
	token  string
	source TokenFunc
}

// Static returns a credential backed by a fixed token.
func Static(token string) Credential {
	return Credential{token: token}
}

// Dynamic returns a credential that calls fn for every request attempt.
func Dynamic(fn TokenFunc) Credential {
	return Credential{source: fn}
}

// IsZero reports whether the credential carries neither a token nor a source.
func (c Credential) IsZero() bool {
	return c.token == "" && c.source == nil
}

// TokenProvider resolves the current credential for each request attempt.
// It is safe for concurrent use; SetToken replaces the whole credential so
// readers see either the old or the new value.
type TokenProvider struct {
	cred atomic.Pointer[Credential]
}

// NewTokenProvider creates a provider for the given credential.
func NewTokenProvider(cred Credential) *TokenProvider {
	p := &TokenProvider{}
	p.cred.Store(&cred)
	return p
}

// Token returns the token to use for the next attempt, or "" when no
// credential is configured. Dynamic sources are not cached.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	cred := p.cred.Load()
	if cred == nil {
		return "", nil
	}

	if cred.token != "" {
		return cred.token, nil
	}

	if cred.source != nil {
		return cred.source(ctx)
	}

	return "", nil
}

// SetToken switches the provider to a static token, dropping any dynamic source.
func (p *TokenProvider) SetToken(token string) {
	p.cred.Store(&Credential{token: token})
}

// HasAuth reports whether a token or a token source is configured.
func (p *TokenProvider) HasAuth() bool {
	cred := p.cred.Load()
	return cred != nil && !cred.IsZero()
}
