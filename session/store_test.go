package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/platform"
	"github.com/hupe1980/agentgate/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingResolver wraps a fixed agent and records how often it is asked.
type countingResolver struct {
	mu    sync.Mutex
	calls int
	agent core.Agent
	err   error
}

func (r *countingResolver) Resolve(_ context.Context, _ string) (core.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return core.Agent{}, r.err
	}
	return r.agent, nil
}

func (r *countingResolver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestGetOrCreate_ReusesSession(t *testing.T) {
	mock := platform.NewMock()
	resolver := &countingResolver{agent: core.Agent{ID: "asst_1", Name: "Planner"}}
	store := NewStore(resolver, mock)

	first, err := store.GetOrCreate(context.Background(), "asst_1")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := store.GetOrCreate(context.Background(), "asst_1")
		require.NoError(t, err)
		assert.Same(t, first, again)
	}

	assert.Equal(t, 1, resolver.count())
	assert.Equal(t, 1, mock.Calls.CreateThread)
	assert.Equal(t, 1, store.Len())
}

func TestGetOrCreate_CaseInsensitiveKey(t *testing.T) {
	mock := platform.NewMock()
	resolver := &countingResolver{agent: core.Agent{ID: "asst_1", Name: "Planner"}}
	store := NewStore(resolver, mock)

	a, err := store.GetOrCreate(context.Background(), "Planner")
	require.NoError(t, err)
	b, err := store.GetOrCreate(context.Background(), "PLANNER")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, mock.Calls.CreateThread)
}

func TestGetOrCreate_ConcurrentFirstAccess(t *testing.T) {
	mock := platform.NewMock()
	resolver := &countingResolver{agent: core.Agent{ID: "asst_1", Name: "Planner"}}
	store := NewStore(resolver, mock)

	const callers = 32
	sessions := make([]*core.Session, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			sessions[i], errs[i] = store.GetOrCreate(context.Background(), "asst_1")
		}(i)
	}
	close(start)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	// At most one thread creation per agent id under concurrent first access.
	assert.Equal(t, 1, mock.Calls.CreateThread)
	for _, sess := range sessions {
		assert.Same(t, sessions[0], sess)
	}
}

func TestGetOrCreate_FailureCachesNothing(t *testing.T) {
	mock := platform.NewMock()
	resolver := &countingResolver{err: errors.New("registry down")}
	store := NewStore(resolver, mock)

	_, err := store.GetOrCreate(context.Background(), "asst_1")
	require.Error(t, err)
	assert.Equal(t, 0, store.Len())

	// Recovery: the next call retries the full creation.
	resolver.mu.Lock()
	resolver.err = nil
	resolver.agent = core.Agent{ID: "asst_1", Name: "Planner"}
	resolver.mu.Unlock()

	sess, err := store.GetOrCreate(context.Background(), "asst_1")
	require.NoError(t, err)
	assert.Equal(t, "asst_1", sess.Agent.ID)
	assert.Equal(t, 1, store.Len())
}

func TestGetOrCreate_NotFoundNotCached(t *testing.T) {
	mock := platform.NewMock()
	mock.Agents = []core.Agent{{ID: "asst_1", Name: "Foo"}}
	store := NewStore(registry.New(mock), mock)

	_, err := store.GetOrCreate(context.Background(), "missing")

	var nf *registry.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, 0, mock.Calls.CreateThread)
	assert.Equal(t, 0, store.Len())
}
