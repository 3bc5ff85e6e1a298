// Package agentgate provides a high-level façade over the chat gateway and
// its collaborators (credential acquisition, agent registry, session store,
// run orchestration and the ephemeral responder), enabling a UI host to go
// from configuration to SendMessage in a few lines:
//
//  1. Load a config via config.Load (validated eagerly; missing keys are
//     construction-time failures)
//  2. Create an AgentGate via New(), supplying the auth collaborators the
//     configured credential strategy needs
//  3. Call SendMessage(ctx, text, taskID) per user turn
//
// The façade delegates routing to gateway.Gateway while keeping setup
// ergonomics concise. Defaults target the OpenAI-compatible platform at the
// configured endpoint; tests and embedders can swap any collaborator.
package agentgate

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentgate/config"
	"github.com/hupe1980/agentgate/core"
	"github.com/hupe1980/agentgate/credential"
	"github.com/hupe1980/agentgate/gateway"
	"github.com/hupe1980/agentgate/logging"
	"github.com/hupe1980/agentgate/platform"
	platformopenai "github.com/hupe1980/agentgate/platform/openai"
	"github.com/hupe1980/agentgate/registry"
	"github.com/hupe1980/agentgate/responder"
	responderopenai "github.com/hupe1980/agentgate/responder/openai"
	"github.com/hupe1980/agentgate/runner"
	"github.com/hupe1980/agentgate/session"
)

// Options configure the AgentGate instance. Any unset collaborator is built
// from the configuration.
type Options struct {
	// TokenExchanger backs the delegated credential strategy. Required when
	// the config selects it.
	TokenExchanger credential.TokenExchanger
	// Broker backs the interactive credential strategy. Required when the
	// config selects it.
	Broker credential.Broker
	// Navigate is invoked with the broker's interactive URL when sign-in is
	// required (interactive strategy).
	Navigate func(url string)
	// OnUnauthenticated is invoked before an authentication-required error
	// surfaces (delegated strategy), typically to redirect to a login route.
	OnUnauthenticated func()

	// Provider overrides the credential provider built from config.
	Provider credential.Provider
	// Platform overrides the remote platform client (tests, alt backends).
	Platform platform.Client
	// Responder overrides the ephemeral path implementation.
	Responder responder.Responder

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// AgentGate is the high-level façade aggregating the gateway and its
// collaborators.
type AgentGate struct {
	gateway  *gateway.Gateway
	sessions *session.Store
	provider credential.Provider
}

// New creates an AgentGate from a validated configuration with optional
// overrides.
func New(cfg *config.Config, optFns ...func(o *Options)) (*AgentGate, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = loggerFromConfig(cfg)
	}

	provider := opts.Provider
	if provider == nil {
		var err error
		if provider, err = buildProvider(cfg, &opts); err != nil {
			return nil, err
		}
	}

	platformClient := opts.Platform
	if platformClient == nil {
		platformClient = platformopenai.New(cfg.Endpoint, provider)
	}

	ephemeral := opts.Responder
	if ephemeral == nil {
		ephemeral = responderopenai.New(cfg.Endpoint, provider, core.AgentRef{
			Name:    cfg.Agent.Name,
			Version: cfg.Agent.Version,
		})
	}

	reg := registry.New(platformClient, func(o *registry.Options) {
		o.Logger = opts.Logger
	})
	sessions := session.NewStore(reg, platformClient, func(o *session.Options) {
		o.Logger = opts.Logger
	})
	send := runner.New(platformClient, func(o *runner.Options) {
		o.PollInterval = cfg.Run.PollInterval
		o.MaxWait = cfg.Run.MaxWait
		o.Logger = opts.Logger
	})

	gw := gateway.New(gateway.NewTaskAgentMap(cfg.TaskAgents), sessions, send, ephemeral,
		func(o *gateway.Options) {
			o.Logger = opts.Logger
		})

	return &AgentGate{gateway: gw, sessions: sessions, provider: provider}, nil
}

// loggerFromConfig builds the default logger: a structured GateLogger when
// the config asks for one, a NoOp logger otherwise.
func loggerFromConfig(cfg *config.Config) logging.Logger {
	if cfg.Logging.Level == "" && cfg.Logging.Format == "" {
		return logging.NoOpLogger{}
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Format: cfg.Logging.Format,
	})
}

// buildProvider selects the credential strategy once, from configuration.
func buildProvider(cfg *config.Config, opts *Options) (credential.Provider, error) {
	switch cfg.Credential.Strategy {
	case config.StrategyAPIKey:
		return credential.NewStaticKeyProvider(cfg.Credential.APIKey, func(o *credential.StaticKeyOptions) {
			if cfg.Credential.TokenType != "" {
				o.TokenType = cfg.Credential.TokenType
			}
		}), nil
	case config.StrategyDelegated:
		if opts.TokenExchanger == nil {
			return nil, fmt.Errorf("credential strategy %q requires a token exchanger", cfg.Credential.Strategy)
		}
		return credential.NewDelegatedProvider(opts.TokenExchanger, cfg.Scopes, func(o *credential.DelegatedOptions) {
			o.OnUnauthenticated = opts.OnUnauthenticated
			if cfg.Credential.TokenType != "" {
				o.TokenType = cfg.Credential.TokenType
			}
		}), nil
	case config.StrategyInteractive:
		if opts.Broker == nil {
			return nil, fmt.Errorf("credential strategy %q requires a broker", cfg.Credential.Strategy)
		}
		return credential.NewInteractiveProvider(opts.Broker, cfg.Scopes, cfg.Credential.ReturnURL, func(o *credential.InteractiveOptions) {
			o.Navigate = opts.Navigate
			if cfg.Credential.TokenType != "" {
				o.TokenType = cfg.Credential.TokenType
			}
		}), nil
	default:
		return nil, fmt.Errorf("unknown credential.strategy %q", cfg.Credential.Strategy)
	}
}

// SendMessage routes one user message and returns the full reply text.
func (g *AgentGate) SendMessage(ctx context.Context, text, taskID string) (string, error) {
	return g.gateway.SendMessage(ctx, text, taskID)
}

// Gateway exposes the underlying gateway for embedding hosts.
func (g *AgentGate) Gateway() *gateway.Gateway { return g.gateway }

// Sessions exposes the session store, e.g. for monitoring cache growth.
func (g *AgentGate) Sessions() *session.Store { return g.sessions }

// Provider exposes the selected credential provider.
func (g *AgentGate) Provider() credential.Provider { return g.provider }
