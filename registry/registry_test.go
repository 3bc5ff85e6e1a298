package registry

import (
	"context"
	"testing"

	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_LiteralID(t *testing.T) {
	mock := platform.NewMock()
	mock.Agents = []core.Agent{{ID: "asst_42", Name: "Helper"}}

	c := New(mock)
	agent, err := c.Resolve(context.Background(), "asst_42")
	require.NoError(t, err)
	assert.Equal(t, "asst_42", agent.ID)

	// A direct fetch must not enumerate.
	assert.Equal(t, 1, mock.Calls.GetAgent)
	assert.Equal(t, 0, mock.Calls.ListAgents)
}

func TestResolve_LiteralPrefixCaseInsensitive(t *testing.T) {
	mock := platform.NewMock()
	mock.Agents = []core.Agent{{ID: "ASST_42", Name: "Helper"}}

	c := New(mock)
	agent, err := c.Resolve(context.Background(), "ASST_42")
	require.NoError(t, err)
	assert.Equal(t, "ASST_42", agent.ID)
	assert.Equal(t, 0, mock.Calls.ListAgents)
}

func TestResolve_NameFirstMatchWins(t *testing.T) {
	// Two agents whose names differ only by case: the first one in platform
	// enumeration order is the deterministic winner.
	mock := platform.NewMock()
	mock.Agents = []core.Agent{
		{ID: "asst_1", Name: "Foo"},
		{ID: "asst_2", Name: "foo"},
	}

	c := New(mock)
	agent, err := c.Resolve(context.Background(), "FOO")
	require.NoError(t, err)
	assert.Equal(t, "asst_1", agent.ID)
}

func TestResolve_NameNotFound(t *testing.T) {
	mock := platform.NewMock()
	mock.Agents = []core.Agent{{ID: "asst_1", Name: "Foo"}}

	c := New(mock)
	_, err := c.Resolve(context.Background(), "missing")

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.Identifier)
	assert.Contains(t, err.Error(), "missing")
}
