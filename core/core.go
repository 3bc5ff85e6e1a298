package core

import "strings"

// AgentRef identifies a remote agent definition by name and version. It is
// constructed once from configuration and never mutated; the ephemeral
// conversation path targets the agent it names.
type AgentRef struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Agent is a resolved remote agent definition as returned by the platform's
// administration surface. ID is the platform-assigned identifier; Name is the
// human-readable display name used for lookup.
type Agent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Thread is a handle to a durable, server-held ordered message history. The
// history itself accumulates remotely; this type carries only the identifier.
type Thread struct {
	ID string `json:"id"`
}

// RunStatus enumerates the lifecycle states of a run as reported by the
// remote platform.
type RunStatus string

// Run lifecycle states. Queued and InProgress are the only non-terminal
// states; a run is polled exclusively while in one of them.
const (
	RunStatusQueued         RunStatus = "queued"
	RunStatusInProgress     RunStatus = "in_progress"
	RunStatusRequiresAction RunStatus = "requires_action"
	RunStatusCompleted      RunStatus = "completed"
	RunStatusFailed         RunStatus = "failed"
	RunStatusCancelled      RunStatus = "cancelled"
	RunStatusExpired        RunStatus = "expired"
)

// Pending reports whether the run is still making progress and should be
// polled again.
func (s RunStatus) Pending() bool {
	return s == RunStatusQueued || s == RunStatusInProgress
}

// Run represents one in-flight invocation of an agent against a thread. It is
// transient: callers poll it to a terminal status and then discard it.
type Run struct {
	ID       string    `json:"id"`
	ThreadID string    `json:"thread_id"`
	Status   RunStatus `json:"status"`
	// LastError carries the platform's last-error message for terminal
	// failure states; empty otherwise.
	LastError string `json:"last_error,omitempty"`
}

// MessageRole distinguishes the author of a thread message.
type MessageRole string

// Message author roles. RoleAgent covers assistant-authored replies.
const (
	RoleUser  MessageRole = "user"
	RoleAgent MessageRole = "assistant"
)

// Message is an immutable conversational turn on a thread. A message may be
// split into multiple text fragments by the platform; Text joins them.
type Message struct {
	ID        string      `json:"id"`
	ThreadID  string      `json:"thread_id"`
	Role      MessageRole `json:"role"`
	Fragments []string    `json:"fragments"`
}

// Text returns the concatenation of all text fragments in order.
func (m Message) Text() string {
	if len(m.Fragments) == 1 {
		return m.Fragments[0]
	}
	var b strings.Builder
	for _, f := range m.Fragments {
		b.WriteString(f)
	}
	return b.String()
}
