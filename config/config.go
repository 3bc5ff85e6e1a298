// Package config loads and validates the startup configuration. The file is
// YAML with ${VAR} environment expansion; every required key is checked
// eagerly so a misconfigured host fails at construction time, not on the
// first message.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Credential strategy names accepted in configuration.
const (
	StrategyAPIKey      = "apikey"
	StrategyDelegated   = "delegated"
	StrategyInteractive = "interactive"
)

// MissingKeyError reports a required configuration key that is absent. It is
// fatal: service construction must not proceed.
type MissingKeyError struct {
	Key string
}

// Error implements the error interface.
func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s is not configured", e.Key)
}

// Config is the complete AgentGate configuration.
type Config struct {
	// Endpoint is the remote agent platform URL.
	Endpoint string `yaml:"endpoint"`
	// Agent references the default agent used by the ephemeral path.
	Agent AgentConfig `yaml:"agent"`
	// Scopes is the authorization scope list for token acquisition.
	Scopes []string `yaml:"scopes"`
	// Credential selects and parameterizes the acquisition strategy.
	Credential CredentialConfig `yaml:"credential"`
	// TaskAgents maps logical task identifiers to remote agent identifiers.
	TaskAgents map[string]string `yaml:"task_agents"`
	// Run tunes the orchestrator's poll loop.
	Run RunConfig `yaml:"run"`
	// Logging configures the structured logger.
	Logging LoggingConfig `yaml:"logging"`
}

// AgentConfig identifies the default agent by name and version.
type AgentConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// CredentialConfig holds the per-strategy credential settings. Delegated and
// interactive strategies rely on ambient auth context and need no settings
// here beyond the strategy name.
type CredentialConfig struct {
	Strategy string `yaml:"strategy"`
	// APIKey is the pre-shared secret for the apikey strategy.
	APIKey string `yaml:"api_key"`
	// TokenType optionally overrides the token-type label.
	TokenType string `yaml:"token_type"`
	// ReturnURL is handed to the interactive broker.
	ReturnURL string `yaml:"return_url"`
}

// RunConfig tunes run polling.
type RunConfig struct {
	PollInterval time.Duration `yaml:"-"`
	MaxWait      time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	PollIntervalRaw string `yaml:"poll_interval"`
	MaxWaitRaw      string `yaml:"max_wait"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed,
// validated Config. Environment variables in the format ${VAR_NAME} are
// expanded before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates raw YAML configuration bytes.
func Parse(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.parseDurations(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR_NAME} references with environment values;
// unset variables expand to the empty string.
func expandEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
}

func (c *Config) parseDurations() error {
	c.Run.PollInterval = 500 * time.Millisecond
	if c.Run.PollIntervalRaw != "" {
		d, err := time.ParseDuration(c.Run.PollIntervalRaw)
		if err != nil {
			return fmt.Errorf("parsing run.poll_interval: %w", err)
		}
		c.Run.PollInterval = d
	}
	if c.Run.MaxWaitRaw != "" {
		d, err := time.ParseDuration(c.Run.MaxWaitRaw)
		if err != nil {
			return fmt.Errorf("parsing run.max_wait: %w", err)
		}
		c.Run.MaxWait = d
	}
	return nil
}

// Validate checks every required key, failing fast on the first miss.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return &MissingKeyError{Key: "endpoint"}
	}
	if c.Agent.Name == "" {
		return &MissingKeyError{Key: "agent.name"}
	}
	if c.Agent.Version == "" {
		return &MissingKeyError{Key: "agent.version"}
	}
	if len(c.Scopes) == 0 {
		return &MissingKeyError{Key: "scopes"}
	}

	switch c.Credential.Strategy {
	case StrategyAPIKey:
		if c.Credential.APIKey == "" {
			return &MissingKeyError{Key: "credential.api_key"}
		}
	case StrategyDelegated, StrategyInteractive:
		// Ambient auth context; nothing further to require.
	case "":
		return &MissingKeyError{Key: "credential.strategy"}
	default:
		return fmt.Errorf("unknown credential.strategy %q", c.Credential.Strategy)
	}

	return nil
}
