// Package openai implements the ephemeral responder on top of the OpenAI
// Responses API. Conversation state is held server-side by chaining each
// request to the previous response id; the first call lazily establishes the
// conversation.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/credential"
	"github.com/hupe1980/agentgate/responder"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

// Options configure the OpenAI responder adapter.
type Options struct {
	// Model overrides the model used when the agent reference does not
	// resolve to a stored prompt carrying its own model.
	Model string
	// RequestOptions are appended to the SDK client options.
	RequestOptions []option.RequestOption
}

// Responder drives one server-held conversation with the configured default
// agent. Safe for concurrent use; calls are serialized so the response chain
// stays linear.
type Responder struct {
	client openai.Client
	ref    core.AgentRef
	model  string

	mu sync.Mutex
	// lastResponseID anchors the server-held conversation; empty until the
	// first round trip succeeds.
	lastResponseID string
}

var _ responder.Responder = (*Responder)(nil)

// New creates a responder against the given endpoint targeting the default
// agent reference. Authentication follows the same per-request credential
// middleware as the durable platform client.
func New(endpoint string, provider credential.Provider, ref core.AgentRef, optFns ...func(o *Options)) *Responder {
	opts := Options{Model: openai.ChatModelGPT4oMini}
	for _, fn := range optFns {
		fn(&opts)
	}

	clientOpts := []option.RequestOption{
		option.WithBaseURL(endpoint),
		option.WithAPIKey("unused"),
		option.WithMiddleware(func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
			cred, err := provider.Acquire(req.Context())
			if err != nil {
				return nil, fmt.Errorf("acquire credential: %w", err)
			}
			req.Header.Set("Authorization", cred.TokenType+" "+cred.Token)
			return next(req)
		}),
	}
	clientOpts = append(clientOpts, opts.RequestOptions...)

	return &Responder{
		client: openai.NewClient(clientOpts...),
		ref:    ref,
		model:  opts.Model,
	}
}

// NewFromClient wraps an already configured SDK client.
func NewFromClient(client openai.Client, ref core.AgentRef, optFns ...func(o *Options)) *Responder {
	opts := Options{Model: openai.ChatModelGPT4oMini}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Responder{client: client, ref: ref, model: opts.Model}
}

// Respond implements responder.Responder with a single request/response round
// trip; completion is synchronous from the caller's perspective.
func (r *Responder) Respond(ctx context.Context, text string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(r.model),
		Input: responses.ResponseNewParamsInputUnion{OfString: openai.String(text)},
	}
	if r.ref.Name != "" {
		params.Prompt = responses.ResponsePromptParam{
			ID:      r.ref.Name,
			Version: openai.String(r.ref.Version),
		}
	}
	if r.lastResponseID != "" {
		params.PreviousResponseID = openai.String(r.lastResponseID)
	}

	resp, err := r.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("create response: %w", err)
	}

	r.lastResponseID = resp.ID

	return resp.OutputText(), nil
}
