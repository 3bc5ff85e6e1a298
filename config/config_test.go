package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
endpoint: https://agents.example.com
agent:
  name: default-agent
  version: "1"
scopes:
  - api://chat/.default
credential:
  strategy: apikey
  api_key: secret-key
task_agents:
  gather-info: asst_gather
  create-steps: asst_steps
run:
  poll_interval: 250ms
  max_wait: 2m
logging:
  level: debug
  format: text
`

func TestParse_Valid(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, "https://agents.example.com", cfg.Endpoint)
	assert.Equal(t, "default-agent", cfg.Agent.Name)
	assert.Equal(t, "1", cfg.Agent.Version)
	assert.Equal(t, []string{"api://chat/.default"}, cfg.Scopes)
	assert.Equal(t, StrategyAPIKey, cfg.Credential.Strategy)
	assert.Equal(t, "secret-key", cfg.Credential.APIKey)
	assert.Equal(t, "asst_gather", cfg.TaskAgents["gather-info"])
	assert.Equal(t, "asst_steps", cfg.TaskAgents["create-steps"])
	assert.Equal(t, 250*time.Millisecond, cfg.Run.PollInterval)
	assert.Equal(t, 2*time.Minute, cfg.Run.MaxWait)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(`
endpoint: https://agents.example.com
agent: {name: a, version: "1"}
scopes: [s]
credential: {strategy: delegated}
`))
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.Run.PollInterval)
	assert.Equal(t, time.Duration(0), cfg.Run.MaxWait)
	assert.Empty(t, cfg.TaskAgents)
}

func TestParse_MissingKeys(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		key  string
	}{
		{
			name: "endpoint",
			yaml: `agent: {name: a, version: "1"}` + "\nscopes: [s]\ncredential: {strategy: delegated}",
			key:  "endpoint",
		},
		{
			name: "agent name",
			yaml: "endpoint: e\nagent: {version: \"1\"}\nscopes: [s]\ncredential: {strategy: delegated}",
			key:  "agent.name",
		},
		{
			name: "agent version",
			yaml: "endpoint: e\nagent: {name: a}\nscopes: [s]\ncredential: {strategy: delegated}",
			key:  "agent.version",
		},
		{
			name: "scopes",
			yaml: "endpoint: e\nagent: {name: a, version: \"1\"}\ncredential: {strategy: delegated}",
			key:  "scopes",
		},
		{
			name: "strategy",
			yaml: "endpoint: e\nagent: {name: a, version: \"1\"}\nscopes: [s]",
			key:  "credential.strategy",
		},
		{
			name: "api key",
			yaml: "endpoint: e\nagent: {name: a, version: \"1\"}\nscopes: [s]\ncredential: {strategy: apikey}",
			key:  "credential.api_key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))

			var missing *MissingKeyError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.key, missing.Key)
			assert.Contains(t, err.Error(), "is not configured")
		})
	}
}

func TestParse_UnknownStrategy(t *testing.T) {
	_, err := Parse([]byte("endpoint: e\nagent: {name: a, version: \"1\"}\nscopes: [s]\ncredential: {strategy: magic}"))
	assert.ErrorContains(t, err, "unknown credential.strategy")
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("AGENTGATE_TEST_KEY", "from-env")

	cfg, err := Parse([]byte(`
endpoint: https://agents.example.com
agent: {name: a, version: "1"}
scopes: [s]
credential:
  strategy: apikey
  api_key: ${AGENTGATE_TEST_KEY}
`))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Credential.APIKey)
}

func TestParse_BadDuration(t *testing.T) {
	_, err := Parse([]byte(`
endpoint: e
agent: {name: a, version: "1"}
scopes: [s]
credential: {strategy: delegated}
run: {poll_interval: soon}
`))
	assert.ErrorContains(t, err, "poll_interval")
}
