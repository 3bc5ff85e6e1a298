// Package registry resolves human-readable or literal agent identifiers to
// concrete remote agent definitions. Resolution is unbounded (full listing
// scan in the worst case) but performed at most once per distinct identifier
// because results are cached by the session store.
package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/logging"
	"github.com/hupe1980/agentgate/platform"
)

// literalIDPrefix marks identifiers that are already platform-assigned agent
// ids and can be fetched directly without enumeration.
const literalIDPrefix = "asst_"

// NotFoundError reports that no registered agent matched an identifier after
// full enumeration.
type NotFoundError struct {
	Identifier string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("agent %q was not found", e.Identifier)
}

// Options configure a Client.
type Options struct {
	Logger logging.Logger
}

// Client resolves agent identifiers against the remote platform's
// administration surface.
type Client struct {
	platform platform.Client
	logger   logging.Logger
}

// New creates a registry client on top of the given platform.
func New(p platform.Client, optFns ...func(o *Options)) *Client {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{platform: p, logger: opts.Logger}
}

// Resolve maps an identifier to a concrete agent. Identifiers carrying the
// literal id prefix are fetched directly; anything else is matched
// case-insensitively against display names in platform enumeration order,
// first match wins. A full scan without a match yields NotFoundError.
func (c *Client) Resolve(ctx context.Context, identifier string) (core.Agent, error) {
	if hasLiteralPrefix(identifier) {
		agent, err := c.platform.GetAgent(ctx, identifier)
		if err != nil {
			return core.Agent{}, fmt.Errorf("resolve agent %q: %w", identifier, err)
		}
		return agent, nil
	}

	var (
		found core.Agent
		ok    bool
	)
	err := c.platform.ListAgents(ctx, func(a core.Agent) bool {
		if strings.EqualFold(a.Name, identifier) {
			found = a
			ok = true
			return false
		}
		return true
	})
	if err != nil {
		return core.Agent{}, fmt.Errorf("resolve agent %q: %w", identifier, err)
	}
	if !ok {
		return core.Agent{}, &NotFoundError{Identifier: identifier}
	}

	c.logger.Debug("resolved agent name=%s id=%s", identifier, found.ID)

	return found, nil
}

func hasLiteralPrefix(identifier string) bool {
	return len(identifier) >= len(literalIDPrefix) &&
		strings.EqualFold(identifier[:len(literalIDPrefix)], literalIDPrefix)
}
