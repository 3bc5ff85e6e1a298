package credential

import (
	"context"
	"time"
)

// staticExpiry is the sentinel lifetime attached to static key credentials;
// a pre-shared secret has no real expiry.
const staticExpiry = 24 * time.Hour

// StaticKeyOptions configure a StaticKeyProvider.
type StaticKeyOptions struct {
	// TokenType overrides the token-type label (default "Bearer").
	TokenType string
}

// StaticKeyProvider wraps a pre-shared secret behind the Provider interface.
// Acquire never fails and never signals ErrAuthenticationRequired.
type StaticKeyProvider struct {
	key       string
	tokenType string
}

// NewStaticKeyProvider creates a provider around the given pre-shared key.
func NewStaticKeyProvider(key string, optFns ...func(o *StaticKeyOptions)) *StaticKeyProvider {
	opts := StaticKeyOptions{TokenType: DefaultTokenType}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &StaticKeyProvider{key: key, tokenType: opts.TokenType}
}

// Acquire implements Provider. It always succeeds.
func (p *StaticKeyProvider) Acquire(_ context.Context) (Credential, error) {
	return Credential{
		Token:     p.key,
		TokenType: p.tokenType,
		ExpiresAt: time.Now().Add(staticExpiry),
	}, nil
}
