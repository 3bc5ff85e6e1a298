package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/logging"
	"github.com/hupe1980/agentgate/platform"
	"golang.org/x/sync/singleflight"
)

// Resolver maps an agent identifier to a concrete agent definition. It is
// satisfied by *registry.Client.
type Resolver interface {
	Resolve(ctx context.Context, identifier string) (core.Agent, error)
}

// Options configure a Store.
type Options struct {
	Logger logging.Logger
}

// Store is a volatile core.SessionStore keeping sessions in a process-local
// map. It is safe for concurrent access; duplicate creation for one agent
// identifier is suppressed with a single-flight group, so a failed creation
// caches nothing and the next caller retries.
type Store struct {
	resolver Resolver
	platform platform.Client
	logger   logging.Logger

	mu       sync.RWMutex
	sessions map[string]*core.Session
	group    singleflight.Group
}

var _ core.SessionStore = (*Store)(nil)

// NewStore constructs an empty session store resolving agents through the
// given resolver and creating threads on the given platform.
func NewStore(resolver Resolver, p platform.Client, optFns ...func(o *Options)) *Store {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{
		resolver: resolver,
		platform: p,
		logger:   opts.Logger,
		sessions: make(map[string]*core.Session),
	}
}

// GetOrCreate implements core.SessionStore. On a miss the agent is resolved,
// a fresh empty thread is created remotely and the pair is cached under the
// lowercased identifier. Concurrent first callers share one creation.
func (s *Store) GetOrCreate(ctx context.Context, agentID string) (*core.Session, error) {
	key := strings.ToLower(agentID)

	s.mu.RLock()
	sess, ok := s.sessions[key]
	s.mu.RUnlock()
	if ok {
		return sess, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		// Re-check under the flight: a previous flight may have landed
		// between the fast-path read and Do.
		s.mu.RLock()
		cached, ok := s.sessions[key]
		s.mu.RUnlock()
		if ok {
			return cached, nil
		}
		return s.create(ctx, agentID, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*core.Session), nil
}

func (s *Store) create(ctx context.Context, agentID, key string) (*core.Session, error) {
	agent, err := s.resolver.Resolve(ctx, agentID)
	if err != nil {
		return nil, err
	}

	thread, err := s.platform.CreateThread(ctx)
	if err != nil {
		return nil, fmt.Errorf("create thread for agent %q: %w", agentID, err)
	}

	sess := &core.Session{Agent: agent, Thread: thread}

	s.mu.Lock()
	s.sessions[key] = sess
	s.mu.Unlock()

	s.logger.Info("session created agent_id=%s thread_id=%s", agent.ID, thread.ID)

	return sess, nil
}

// Len returns the number of cached sessions. The store never shrinks; this
// exists so hosts can monitor growth of the unbounded cache.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
