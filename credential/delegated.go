package credential

import (
	"context"
	"time"
)

// delegatedExpiry is the conservative fixed lifetime reported for delegated
// tokens. The underlying exchanger caches and refreshes internally, so a
// shorter horizon than the real token lifetime is reported downstream.
const delegatedExpiry = 50 * time.Minute

type principalKey struct{}

// Principal is the authenticated user attached to a request context.
type Principal struct {
	Subject       string
	Authenticated bool
}

// WithPrincipal returns a context carrying the authenticated principal of the
// active request or session.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext extracts the principal placed by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// TokenExchanger exchanges an authenticated principal for an access token
// scoped to the given scopes. Implementations typically wrap an identity
// library that caches and refreshes tokens internally.
type TokenExchanger interface {
	Exchange(ctx context.Context, principal Principal, scopes []string) (string, error)
}

// TokenExchangerFunc adapts a function to the TokenExchanger interface.
type TokenExchangerFunc func(ctx context.Context, principal Principal, scopes []string) (string, error)

// Exchange implements TokenExchanger.
func (f TokenExchangerFunc) Exchange(ctx context.Context, principal Principal, scopes []string) (string, error) {
	return f(ctx, principal, scopes)
}

// DelegatedOptions configure a DelegatedProvider.
type DelegatedOptions struct {
	// TokenType overrides the token-type label (default "Bearer").
	TokenType string
	// OnUnauthenticated is invoked before ErrAuthenticationRequired is
	// returned, giving hosts with a navigation surface a chance to redirect
	// to their login route. May be nil.
	OnUnauthenticated func()
}

// DelegatedProvider acquires tokens on behalf of the authenticated user found
// on the request context. A missing or unauthenticated principal yields
// ErrAuthenticationRequired.
type DelegatedProvider struct {
	exchanger TokenExchanger
	scopes    []string
	tokenType string
	onUnauth  func()
}

// NewDelegatedProvider creates a delegated-user provider exchanging the
// context principal for a token with the configured scopes.
func NewDelegatedProvider(exchanger TokenExchanger, scopes []string, optFns ...func(o *DelegatedOptions)) *DelegatedProvider {
	opts := DelegatedOptions{TokenType: DefaultTokenType}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &DelegatedProvider{
		exchanger: exchanger,
		scopes:    scopes,
		tokenType: opts.TokenType,
		onUnauth:  opts.OnUnauthenticated,
	}
}

// Acquire implements Provider.
func (p *DelegatedProvider) Acquire(ctx context.Context) (Credential, error) {
	principal, ok := PrincipalFromContext(ctx)
	if !ok || !principal.Authenticated {
		if p.onUnauth != nil {
			p.onUnauth()
		}
		return Credential{}, ErrAuthenticationRequired
	}

	token, err := p.exchanger.Exchange(ctx, principal, p.scopes)
	if err != nil {
		return Credential{}, err
	}

	return Credential{
		Token:     token,
		TokenType: p.tokenType,
		ExpiresAt: time.Now().Add(delegatedExpiry),
	}, nil
}
