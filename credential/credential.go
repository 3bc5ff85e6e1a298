package credential

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTokenType is the token-type label attached to credentials unless a
// provider is configured otherwise.
const DefaultTokenType = "Bearer"

var (
	// ErrAuthenticationRequired signals that no valid session or credential
	// is available. Callers are expected to redirect the user to a sign-in
	// surface rather than retry.
	ErrAuthenticationRequired = errors.New("authentication required")
)

// AcquisitionError reports that a token broker returned an unexpected status.
// It is a hard failure of the current call.
type AcquisitionError struct {
	Status string
}

// Error implements the error interface.
func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("credential acquisition failed with status %q", e.Status)
}

// Credential is a bearer credential attached to outbound platform calls. It
// is produced fresh (or from a provider-internal cache) per call and never
// persisted beyond the call that requested it.
type Credential struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
}

// Provider produces a bearer credential on demand. Implementations must be
// safe for concurrent use; every outbound network call invokes Acquire once.
type Provider interface {
	Acquire(ctx context.Context) (Credential, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(ctx context.Context) (Credential, error)

// Acquire implements Provider.
func (f ProviderFunc) Acquire(ctx context.Context) (Credential, error) { return f(ctx) }
