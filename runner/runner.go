// Package runner drives one asynchronous remote run through its lifecycle:
// append the user message, start the run, poll until terminal, extract the
// reply. Steps execute strictly sequentially; a run is never reused across
// Send calls.
package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/logging"
	"github.com/hupe1980/agentgate/platform"
)

// DefaultPollInterval is the fixed wait between run status fetches.
const DefaultPollInterval = 500 * time.Millisecond

// RunError reports a run that reached a terminal status other than Completed.
// Message carries the platform's last-error message when present.
type RunError struct {
	Status  core.RunStatus
	Message string
}

// Error implements the error interface.
func (e *RunError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("run failed or was cancelled: %s", e.Message)
	}
	return fmt.Sprintf("run failed or was cancelled: %s", e.Status)
}

// TimeoutError reports that a run stayed pending past the configured maximum
// wait. The remote run may still complete independently.
type TimeoutError struct {
	RunID   string
	Elapsed time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("run %s still pending after %s", e.RunID, e.Elapsed)
}

// Options configure a Runner.
type Options struct {
	// PollInterval is the wait between status fetches (default 500ms).
	PollInterval time.Duration
	// MaxWait bounds the poll loop; zero means unbounded, leaving the
	// caller's context as the only way out of a stuck remote run.
	MaxWait time.Duration
	// Logger for run lifecycle events.
	Logger logging.Logger
}

// Runner orchestrates runs against the remote platform. Safe for concurrent
// use; each Send call is independent.
type Runner struct {
	platform     platform.Client
	pollInterval time.Duration
	maxWait      time.Duration
	logger       logging.Logger
}

// New constructs a Runner with optional overrides.
func New(p platform.Client, optFns ...func(o *Options)) *Runner {
	opts := Options{
		PollInterval: DefaultPollInterval,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Runner{
		platform:     p,
		pollInterval: opts.PollInterval,
		maxWait:      opts.MaxWait,
		logger:       opts.Logger,
	}
}

// Send appends text as a user message to the session's thread, runs the
// session's agent over it and returns the reply text of the last agent
// message produced by the run (empty if the run produced none).
func (r *Runner) Send(ctx context.Context, session *core.Session, text string) (string, error) {
	if _, err := r.platform.CreateMessage(ctx, session.Thread.ID, core.RoleUser, text); err != nil {
		return "", fmt.Errorf("append message: %w", err)
	}

	run, err := r.platform.CreateRun(ctx, session.Thread.ID, session.Agent.ID)
	if err != nil {
		return "", fmt.Errorf("start run: %w", err)
	}

	run, err = r.waitForRun(ctx, session.Thread.ID, run.ID)
	if err != nil {
		return "", err
	}

	if run.Status != core.RunStatusCompleted {
		return "", &RunError{Status: run.Status, Message: run.LastError}
	}

	reply, err := r.lastAgentText(ctx, session.Thread.ID, run.ID)
	if err != nil {
		return "", err
	}
	return reply, nil
}

// waitForRun polls the run status every poll interval while it is pending.
// The loop is bounded by ctx and, when configured, by MaxWait; cancellation
// aborts waiting without marking the remote run as failed.
func (r *Runner) waitForRun(ctx context.Context, threadID, runID string) (core.Run, error) {
	start := time.Now()
	polls := 0

	run, err := r.platform.GetRun(ctx, threadID, runID)
	if err != nil {
		return core.Run{}, fmt.Errorf("fetch run: %w", err)
	}
	polls++

	for run.Status.Pending() {
		if r.maxWait > 0 && time.Since(start) >= r.maxWait {
			return core.Run{}, &TimeoutError{RunID: runID, Elapsed: time.Since(start)}
		}

		select {
		case <-ctx.Done():
			return core.Run{}, ctx.Err()
		case <-time.After(r.pollInterval):
		}

		run, err = r.platform.GetRun(ctx, threadID, runID)
		if err != nil {
			return core.Run{}, fmt.Errorf("fetch run: %w", err)
		}
		polls++
	}

	r.logger.Debug("run terminal run_id=%s status=%s polls=%d elapsed=%s",
		runID, run.Status, polls, time.Since(start))

	return run, nil
}

// lastAgentText scans the run's messages in ascending order and returns the
// concatenated text fragments of the last agent message. Earlier agent
// messages are overwritten, not appended: the latest assistant turn wins.
func (r *Runner) lastAgentText(ctx context.Context, threadID, runID string) (string, error) {
	messages, err := r.platform.ListRunMessages(ctx, threadID, runID)
	if err != nil {
		return "", fmt.Errorf("fetch run messages: %w", err)
	}

	var b strings.Builder
	for _, msg := range messages {
		if msg.Role != core.RoleAgent {
			continue
		}
		b.Reset()
		for _, fragment := range msg.Fragments {
			b.WriteString(fragment)
		}
	}
	return b.String(), nil
}
