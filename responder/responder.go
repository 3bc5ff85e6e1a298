// Package responder defines the ephemeral conversation path: a single
// lazily-initialized default conversation issuing one request/response round
// trip per message, with no run polling. Unlike the keyed session store there
// is exactly one conversation per responder instance.
//
// Concrete implementations live in the responder/openai and
// responder/anthropic subpackages.
package responder

import (
	"context"
	"sync"
)

// Responder sends a message on the instance's single default conversation
// and returns the reply text. The conversation is created lazily on first
// call and reused for the lifetime of the instance. Implementations must be
// safe for concurrent use.
type Responder interface {
	Respond(ctx context.Context, text string) (string, error)
}

// Mock is an in-memory Responder for tests recording call counts and inputs.
type Mock struct {
	mu     sync.Mutex
	calls  int
	inputs []string

	// Reply is returned for every call. Err, when set, takes precedence.
	Reply string
	Err   error
}

// NewMock constructs a Mock answering with the given reply.
func NewMock(reply string) *Mock { return &Mock{Reply: reply} }

// Respond implements Responder.
func (m *Mock) Respond(_ context.Context, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.inputs = append(m.inputs, text)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

// Calls returns how many times Respond was invoked.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Inputs returns the texts passed to Respond in order.
func (m *Mock) Inputs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.inputs))
	copy(out, m.inputs)
	return out
}
