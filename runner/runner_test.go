package runner

import (
	"context"
	"testing"
	"time"

	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession() *core.Session {
	return &core.Session{
		Agent:  core.Agent{ID: "asst_1", Name: "Planner"},
		Thread: core.Thread{ID: "thread_1"},
	}
}

func fastRunner(mock *platform.Mock, optFns ...func(o *Options)) *Runner {
	fns := append([]func(o *Options){func(o *Options) {
		o.PollInterval = time.Millisecond
	}}, optFns...)
	return New(mock, fns...)
}

func TestSend_PollsUntilCompleted(t *testing.T) {
	mock := platform.NewMock()
	mock.StatusSequence = []core.RunStatus{
		core.RunStatusQueued,
		core.RunStatusInProgress,
		core.RunStatusCompleted,
	}
	mock.Messages = []core.Message{
		{Role: core.RoleUser, Fragments: []string{"hi"}},
		{Role: core.RoleAgent, Fragments: []string{"Hello", ", world"}},
	}

	reply, err := fastRunner(mock).Send(context.Background(), testSession(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", reply)

	// One status fetch per scripted state, no more.
	assert.Equal(t, 3, mock.Calls.GetRun)
	assert.Equal(t, 1, mock.Calls.CreateMessage)
	assert.Equal(t, 1, mock.Calls.CreateRun)
	assert.Equal(t, 1, mock.Calls.ListRunMessages)
}

func TestSend_LastAgentMessageWins(t *testing.T) {
	mock := platform.NewMock()
	mock.Messages = []core.Message{
		{Role: core.RoleAgent, Fragments: []string{"first draft"}},
		{Role: core.RoleUser, Fragments: []string{"go on"}},
		{Role: core.RoleAgent, Fragments: []string{"final ", "answer"}},
	}

	reply, err := fastRunner(mock).Send(context.Background(), testSession(), "hi")
	require.NoError(t, err)

	// Earlier agent messages are overwritten, not concatenated across.
	assert.Equal(t, "final answer", reply)
}

func TestSend_NoAgentMessage(t *testing.T) {
	mock := platform.NewMock()
	mock.Messages = []core.Message{
		{Role: core.RoleUser, Fragments: []string{"hi"}},
	}

	reply, err := fastRunner(mock).Send(context.Background(), testSession(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "", reply)
}

func TestSend_RunFailed(t *testing.T) {
	mock := platform.NewMock()
	mock.StatusSequence = []core.RunStatus{
		core.RunStatusQueued,
		core.RunStatusFailed,
	}
	mock.LastError = "X"

	_, err := fastRunner(mock).Send(context.Background(), testSession(), "hi")

	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, core.RunStatusFailed, runErr.Status)
	assert.Contains(t, err.Error(), "X")

	// No message fetch after a failed run.
	assert.Equal(t, 0, mock.Calls.ListRunMessages)
}

func TestSend_RunFailedWithoutLastError(t *testing.T) {
	mock := platform.NewMock()
	mock.StatusSequence = []core.RunStatus{core.RunStatusExpired}

	_, err := fastRunner(mock).Send(context.Background(), testSession(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(core.RunStatusExpired))
}

func TestSend_Cancellation(t *testing.T) {
	mock := platform.NewMock()
	mock.StatusSequence = []core.RunStatus{core.RunStatusQueued}

	ctx, cancel := context.WithCancel(context.Background())
	r := New(mock, func(o *Options) {
		o.PollInterval = time.Hour // cancellation is the only way out
	})

	done := make(chan error, 1)
	go func() {
		_, err := r.Send(ctx, testSession(), "hi")
		done <- err
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Send did not observe cancellation")
	}
}

func TestSend_Timeout(t *testing.T) {
	mock := platform.NewMock()
	mock.StatusSequence = []core.RunStatus{core.RunStatusQueued}

	r := fastRunner(mock, func(o *Options) {
		o.MaxWait = 5 * time.Millisecond
	})

	_, err := r.Send(context.Background(), testSession(), "hi")

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.GreaterOrEqual(t, timeoutErr.Elapsed, 5*time.Millisecond)
}
