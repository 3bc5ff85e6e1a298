// Package platform defines the remote agent platform contract consumed by
// the durable conversation path, plus an in-memory Mock for tests. The real
// implementation lives in the platform/openai subpackage; the contract stays
// SDK-agnostic so orchestration logic can be exercised against fakes.
package platform

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hupe1980/agentgate/core"
)

// Client is the black-box remote platform surface: threads, messages, runs
// and the agent administration listing. All calls are bearer-authenticated by
// the concrete implementation; callers never handle credentials directly.
type Client interface {
	// CreateThread creates a fresh empty thread.
	CreateThread(ctx context.Context) (core.Thread, error)

	// CreateMessage appends a message to a thread. The remote thread state
	// is mutated irrevocably; a sent message cannot be retracted.
	CreateMessage(ctx context.Context, threadID string, role core.MessageRole, text string) (core.Message, error)

	// CreateRun starts a run binding a thread to an agent.
	CreateRun(ctx context.Context, threadID, agentID string) (core.Run, error)

	// GetRun fetches the current status of a run.
	GetRun(ctx context.Context, threadID, runID string) (core.Run, error)

	// ListRunMessages returns the thread messages associated with a run in
	// ascending chronological order.
	ListRunMessages(ctx context.Context, threadID, runID string) ([]core.Message, error)

	// GetAgent fetches an agent definition by its platform identifier.
	GetAgent(ctx context.Context, agentID string) (core.Agent, error)

	// ListAgents enumerates all registered agents in platform order, calling
	// fn for each. Enumeration stops early when fn returns false.
	ListAgents(ctx context.Context, fn func(core.Agent) bool) error
}

// Mock is an in-memory Client for tests. It records per-operation call
// counts, serves a scripted run status sequence and a fixed agent listing.
// Safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Agents served by GetAgent / ListAgents, in enumeration order.
	Agents []core.Agent

	// StatusSequence is consumed one entry per GetRun call; the final entry
	// is repeated once exhausted.
	StatusSequence []core.RunStatus

	// LastError is attached to terminal failure statuses returned by GetRun.
	LastError string

	// Messages returned by ListRunMessages.
	Messages []core.Message

	// Err, when set, is returned by every operation.
	Err error

	Calls struct {
		CreateThread    int
		CreateMessage   int
		CreateRun       int
		GetRun          int
		ListRunMessages int
		GetAgent        int
		ListAgents      int
	}

	// AppendedMessages records every message passed to CreateMessage.
	AppendedMessages []core.Message
}

// NewMock constructs an empty Mock.
func NewMock() *Mock { return &Mock{} }

// TotalCalls returns the number of remote operations issued so far.
func (m *Mock) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.Calls
	return c.CreateThread + c.CreateMessage + c.CreateRun + c.GetRun +
		c.ListRunMessages + c.GetAgent + c.ListAgents
}

// CreateThread implements Client.
func (m *Mock) CreateThread(_ context.Context) (core.Thread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.CreateThread++
	if m.Err != nil {
		return core.Thread{}, m.Err
	}
	return core.Thread{ID: "thread_" + uuid.NewString()}, nil
}

// CreateMessage implements Client.
func (m *Mock) CreateMessage(_ context.Context, threadID string, role core.MessageRole, text string) (core.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.CreateMessage++
	if m.Err != nil {
		return core.Message{}, m.Err
	}
	msg := core.Message{
		ID:        "msg_" + uuid.NewString(),
		ThreadID:  threadID,
		Role:      role,
		Fragments: []string{text},
	}
	m.AppendedMessages = append(m.AppendedMessages, msg)
	return msg, nil
}

// CreateRun implements Client.
func (m *Mock) CreateRun(_ context.Context, threadID, _ string) (core.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.CreateRun++
	if m.Err != nil {
		return core.Run{}, m.Err
	}
	return core.Run{ID: "run_" + uuid.NewString(), ThreadID: threadID, Status: core.RunStatusQueued}, nil
}

// GetRun implements Client. Each call consumes the next scripted status.
func (m *Mock) GetRun(_ context.Context, threadID, runID string) (core.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.GetRun++
	if m.Err != nil {
		return core.Run{}, m.Err
	}
	status := core.RunStatusCompleted
	if n := len(m.StatusSequence); n > 0 {
		idx := m.Calls.GetRun - 1
		if idx >= n {
			idx = n - 1
		}
		status = m.StatusSequence[idx]
	}
	run := core.Run{ID: runID, ThreadID: threadID, Status: status}
	if !status.Pending() && status != core.RunStatusCompleted {
		run.LastError = m.LastError
	}
	return run, nil
}

// ListRunMessages implements Client.
func (m *Mock) ListRunMessages(_ context.Context, _, _ string) ([]core.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.ListRunMessages++
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]core.Message, len(m.Messages))
	copy(out, m.Messages)
	return out, nil
}

// GetAgent implements Client.
func (m *Mock) GetAgent(_ context.Context, agentID string) (core.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.GetAgent++
	if m.Err != nil {
		return core.Agent{}, m.Err
	}
	for _, a := range m.Agents {
		if a.ID == agentID {
			return a, nil
		}
	}
	return core.Agent{}, fmt.Errorf("mock: agent %q not found", agentID)
}

// ListAgents implements Client.
func (m *Mock) ListAgents(_ context.Context, fn func(core.Agent) bool) error {
	m.mu.Lock()
	m.Calls.ListAgents++
	agents := make([]core.Agent, len(m.Agents))
	copy(agents, m.Agents)
	err := m.Err
	m.mu.Unlock()
	if err != nil {
		return err
	}
	for _, a := range agents {
		if !fn(a) {
			return nil
		}
	}
	return nil
}
