// Package openai implements the platform.Client contract on top of the
// OpenAI Assistants v2 API using the official SDK. The credential provider is
// consulted once per outbound request through a client middleware, so every
// network call carries a freshly acquired bearer credential.
package openai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/credential"
	"github.com/hupe1980/agentgate/platform"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Options configure the OpenAI platform adapter.
type Options struct {
	// RequestOptions are appended to the SDK client options, e.g. for
	// custom HTTP clients or extra headers.
	RequestOptions []option.RequestOption
}

// Client adapts the OpenAI Assistants v2 API to the platform.Client contract.
type Client struct {
	client openai.Client
}

var _ platform.Client = (*Client)(nil)

// New creates a platform client against the given endpoint. Authentication is
// delegated entirely to the credential provider: a request middleware
// acquires a credential per call and sets the Authorization header.
func New(endpoint string, provider credential.Provider, optFns ...func(o *Options)) *Client {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	clientOpts := []option.RequestOption{
		option.WithBaseURL(endpoint),
		// The SDK insists on a key; the middleware below overwrites the
		// resulting header with the provider's credential.
		option.WithAPIKey("unused"),
		option.WithMiddleware(bearerMiddleware(provider)),
	}
	clientOpts = append(clientOpts, opts.RequestOptions...)

	return &Client{client: openai.NewClient(clientOpts...)}
}

// NewFromClient wraps an already configured SDK client.
func NewFromClient(client openai.Client) *Client {
	return &Client{client: client}
}

// bearerMiddleware acquires a credential per request and attaches it as the
// Authorization header.
func bearerMiddleware(provider credential.Provider) option.Middleware {
	return func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
		cred, err := provider.Acquire(req.Context())
		if err != nil {
			return nil, fmt.Errorf("acquire credential: %w", err)
		}
		req.Header.Set("Authorization", cred.TokenType+" "+cred.Token)
		return next(req)
	}
}

// CreateThread implements platform.Client.
func (c *Client) CreateThread(ctx context.Context) (core.Thread, error) {
	thread, err := c.client.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
	if err != nil {
		return core.Thread{}, fmt.Errorf("create thread: %w", err)
	}
	return core.Thread{ID: thread.ID}, nil
}

// CreateMessage implements platform.Client.
func (c *Client) CreateMessage(ctx context.Context, threadID string, role core.MessageRole, text string) (core.Message, error) {
	sdkRole := openai.BetaThreadMessageNewParamsRoleUser
	if role == core.RoleAgent {
		sdkRole = openai.BetaThreadMessageNewParamsRoleAssistant
	}
	msg, err := c.client.Beta.Threads.Messages.New(ctx, threadID, openai.BetaThreadMessageNewParams{
		Role: sdkRole,
		Content: openai.BetaThreadMessageNewParamsContentUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return core.Message{}, fmt.Errorf("create message: %w", err)
	}
	return toMessage(*msg), nil
}

// CreateRun implements platform.Client.
func (c *Client) CreateRun(ctx context.Context, threadID, agentID string) (core.Run, error) {
	run, err := c.client.Beta.Threads.Runs.New(ctx, threadID, openai.BetaThreadRunNewParams{
		AssistantID: agentID,
	})
	if err != nil {
		return core.Run{}, fmt.Errorf("create run: %w", err)
	}
	return toRun(*run), nil
}

// GetRun implements platform.Client.
func (c *Client) GetRun(ctx context.Context, threadID, runID string) (core.Run, error) {
	run, err := c.client.Beta.Threads.Runs.Get(ctx, threadID, runID)
	if err != nil {
		return core.Run{}, fmt.Errorf("get run: %w", err)
	}
	return toRun(*run), nil
}

// ListRunMessages implements platform.Client. Messages are requested in
// ascending chronological order, filtered to the given run.
func (c *Client) ListRunMessages(ctx context.Context, threadID, runID string) ([]core.Message, error) {
	iter := c.client.Beta.Threads.Messages.ListAutoPaging(ctx, threadID, openai.BetaThreadMessageListParams{
		RunID: openai.String(runID),
		Order: openai.BetaThreadMessageListParamsOrderAsc,
	})

	var out []core.Message
	for iter.Next() {
		out = append(out, toMessage(iter.Current()))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list run messages: %w", err)
	}
	return out, nil
}

// GetAgent implements platform.Client.
func (c *Client) GetAgent(ctx context.Context, agentID string) (core.Agent, error) {
	assistant, err := c.client.Beta.Assistants.Get(ctx, agentID)
	if err != nil {
		return core.Agent{}, fmt.Errorf("get agent: %w", err)
	}
	return core.Agent{ID: assistant.ID, Name: assistant.Name}, nil
}

// ListAgents implements platform.Client. Enumeration follows the platform's
// paging order and stops as soon as fn returns false.
func (c *Client) ListAgents(ctx context.Context, fn func(core.Agent) bool) error {
	iter := c.client.Beta.Assistants.ListAutoPaging(ctx, openai.BetaAssistantListParams{})
	for iter.Next() {
		a := iter.Current()
		if !fn(core.Agent{ID: a.ID, Name: a.Name}) {
			return nil
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("list agents: %w", err)
	}
	return nil
}

func toRun(run openai.Run) core.Run {
	out := core.Run{
		ID:       run.ID,
		ThreadID: run.ThreadID,
		Status:   core.RunStatus(run.Status),
	}
	if run.LastError.Message != "" {
		out.LastError = run.LastError.Message
	}
	return out
}

func toMessage(msg openai.Message) core.Message {
	out := core.Message{
		ID:       msg.ID,
		ThreadID: msg.ThreadID,
		Role:     core.MessageRole(msg.Role),
	}
	for _, content := range msg.Content {
		if content.Type == "text" {
			out.Fragments = append(out.Fragments, content.Text.Value)
		}
	}
	return out
}
