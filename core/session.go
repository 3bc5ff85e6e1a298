package core

import "context"

// Session pairs a resolved agent with its durable conversation thread for one
// logical task identifier. It is created on first use by a SessionStore and
// never mutated afterwards; the underlying thread accumulates messages on the
// server side, not locally.
type Session struct {
	Agent  Agent
	Thread Thread
}

// SessionStore resolves and caches durable sessions keyed by agent
// identifier. Implementations must be safe for concurrent use and must create
// at most one session (and therefore at most one remote thread) per distinct
// agent identifier, regardless of concurrent first access.
type SessionStore interface {
	// GetOrCreate returns the cached session for agentID, creating and
	// caching it on first access. A failed creation caches nothing.
	GetOrCreate(ctx context.Context, agentID string) (*Session, error)
}
