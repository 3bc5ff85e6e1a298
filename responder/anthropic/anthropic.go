// Package anthropic implements the ephemeral responder on top of the
// Anthropic Messages API. The API holds no server-side conversation state, so
// the message history is accumulated locally and replayed on every call.
package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hupe1980/agentgate/credential"
	"github.com/hupe1980/agentgate/responder"
)

// Options configure the Anthropic responder adapter.
type Options struct {
	Model     anthropic.Model
	MaxTokens int64
	// System is an optional system prompt standing in for the remote agent
	// definition's instructions.
	System string
	// RequestOptions are appended to the SDK client options.
	RequestOptions []option.RequestOption
}

// Responder drives one locally-tracked conversation through the Messages
// API. Calls are serialized so the accumulated history stays ordered.
type Responder struct {
	client    *anthropic.Client
	model     anthropic.Model
	maxTokens int64
	system    string

	mu      sync.Mutex
	history []anthropic.MessageParam
}

var _ responder.Responder = (*Responder)(nil)

// New creates a responder whose API key is acquired from the credential
// provider once per outbound request.
func New(provider credential.Provider, optFns ...func(o *Options)) *Responder {
	opts := Options{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	clientOpts := []option.RequestOption{
		option.WithMiddleware(func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
			cred, err := provider.Acquire(req.Context())
			if err != nil {
				return nil, fmt.Errorf("acquire credential: %w", err)
			}
			req.Header.Set("X-Api-Key", cred.Token)
			return next(req)
		}),
	}
	clientOpts = append(clientOpts, opts.RequestOptions...)

	client := anthropic.NewClient(clientOpts...)

	return &Responder{
		client:    &client,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		system:    opts.System,
	}
}

// NewFromClient wraps an already configured SDK client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Responder {
	opts := Options{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Responder{
		client:    client,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		system:    opts.System,
	}
}

// Respond implements responder.Responder. The user turn and the model's reply
// are appended to the local history only after a successful round trip.
func (r *Responder) Respond(ctx context.Context, text string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	messages := make([]anthropic.MessageParam, 0, len(r.history)+1)
	messages = append(messages, r.history...)
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))

	params := anthropic.MessageNewParams{
		Model:     r.model,
		MaxTokens: r.maxTokens,
		Messages:  messages,
	}
	if r.system != "" {
		params.System = []anthropic.TextBlockParam{{Text: r.system}}
	}

	resp, err := r.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("create message: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	r.history = append(messages, resp.ToParam())

	return b.String(), nil
}
