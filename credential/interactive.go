package credential

import (
	"context"
	"time"
)

// BrokerStatus classifies the outcome of a broker token request.
type BrokerStatus string

// Broker request outcomes. Any status other than Success or RequiresRedirect
// is treated as an acquisition failure.
const (
	BrokerStatusSuccess          BrokerStatus = "success"
	BrokerStatusRequiresRedirect BrokerStatus = "requires_redirect"
)

// BrokerRequest describes one token request issued to the broker.
type BrokerRequest struct {
	Scopes    []string
	ReturnURL string
}

// BrokerResult is the broker's answer: a token on success, or the interactive
// sign-in URL when a redirect is required.
type BrokerResult struct {
	Status         BrokerStatus
	Token          string
	ExpiresAt      time.Time
	InteractionURL string
}

// Broker is a client-side token broker capable of silent, redirect-based
// token acquisition.
type Broker interface {
	RequestToken(ctx context.Context, req BrokerRequest) (BrokerResult, error)
}

// BrokerFunc adapts a function to the Broker interface.
type BrokerFunc func(ctx context.Context, req BrokerRequest) (BrokerResult, error)

// RequestToken implements Broker.
func (f BrokerFunc) RequestToken(ctx context.Context, req BrokerRequest) (BrokerResult, error) {
	return f(ctx, req)
}

// InteractiveOptions configure an InteractiveProvider.
type InteractiveOptions struct {
	// TokenType overrides the token-type label (default "Bearer").
	TokenType string
	// Navigate is invoked with the broker's interactive URL when a redirect
	// is required, before ErrAuthenticationRequired is returned. May be nil.
	Navigate func(url string)
}

// InteractiveProvider acquires tokens from a client-side broker with the
// configured scopes and return URL. Three outcomes are possible: a token, a
// required redirect (ErrAuthenticationRequired plus navigation), or any other
// broker status surfaced as an AcquisitionError.
type InteractiveProvider struct {
	broker    Broker
	scopes    []string
	returnURL string
	tokenType string
	navigate  func(url string)
}

// NewInteractiveProvider creates an interactive-redirect provider.
func NewInteractiveProvider(broker Broker, scopes []string, returnURL string, optFns ...func(o *InteractiveOptions)) *InteractiveProvider {
	opts := InteractiveOptions{TokenType: DefaultTokenType}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InteractiveProvider{
		broker:    broker,
		scopes:    scopes,
		returnURL: returnURL,
		tokenType: opts.TokenType,
		navigate:  opts.Navigate,
	}
}

// Acquire implements Provider.
func (p *InteractiveProvider) Acquire(ctx context.Context) (Credential, error) {
	result, err := p.broker.RequestToken(ctx, BrokerRequest{Scopes: p.scopes, ReturnURL: p.returnURL})
	if err != nil {
		return Credential{}, err
	}

	switch result.Status {
	case BrokerStatusSuccess:
		return Credential{
			Token:     result.Token,
			TokenType: p.tokenType,
			ExpiresAt: result.ExpiresAt,
		}, nil
	case BrokerStatusRequiresRedirect:
		if p.navigate != nil {
			p.navigate(result.InteractionURL)
		}
		return Credential{}, ErrAuthenticationRequired
	default:
		return Credential{}, &AcquisitionError{Status: string(result.Status)}
	}
}
