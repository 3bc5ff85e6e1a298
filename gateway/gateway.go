// Package gateway is the public façade routing an incoming (message, taskID)
// pair to either the ephemeral default-agent conversation or the durable
// per-task-agent thread.
package gateway

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/logging"
	"github.com/hupe1980/agentgate/responder"
	"github.com/hupe1980/agentgate/runner"
)

// Sender drives a durable session through one run. It is satisfied by
// *runner.Runner.
type Sender interface {
	Send(ctx context.Context, session *core.Session, text string) (string, error)
}

var _ Sender = (*runner.Runner)(nil)

// Options configure a Gateway.
type Options struct {
	Logger logging.Logger
}

// Gateway routes messages. Multiple SendMessage calls may be in flight
// concurrently; routing itself is stateless, all state lives in the session
// store and the responder.
type Gateway struct {
	tasks     *TaskAgentMap
	sessions  core.SessionStore
	sender    Sender
	responder responder.Responder
	logger    logging.Logger
}

// New constructs a Gateway.
func New(tasks *TaskAgentMap, sessions core.SessionStore, sender Sender, r responder.Responder, optFns ...func(o *Options)) *Gateway {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Gateway{
		tasks:     tasks,
		sessions:  sessions,
		sender:    sender,
		responder: r,
		logger:    opts.Logger,
	}
}

// SendMessage routes a message and returns the full reply text:
//
//   - empty or whitespace-only text returns "" without any remote call
//   - a non-empty taskID present in the task-agent map goes to the durable
//     path (session store + run orchestrator)
//   - anything else goes to the ephemeral default conversation
func (g *Gateway) SendMessage(ctx context.Context, text, taskID string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	invocationID := uuid.NewString()

	if taskID != "" {
		if agentID, ok := g.tasks.Lookup(taskID); ok {
			g.logger.Debug("routing durable invocation_id=%s task_id=%s agent_id=%s",
				invocationID, taskID, agentID)
			return g.sendDurable(ctx, agentID, text)
		}
	}

	g.logger.Debug("routing ephemeral invocation_id=%s", invocationID)

	return g.responder.Respond(ctx, text)
}

func (g *Gateway) sendDurable(ctx context.Context, agentID, text string) (string, error) {
	session, err := g.sessions.GetOrCreate(ctx, agentID)
	if err != nil {
		return "", err
	}
	return g.sender.Send(ctx, session, text)
}
