// Package agentteam provides a high-level façade over the team orchestrator
// enabling rapid construction of multi-agent conversational systems. Most
// applications interact with this package by:
//  1. Creating a Team via New() with a model client and the member agents
//  2. Optionally overriding the logger, default model and turn budget
//  3. Driving conversations with Run (single utterance) or RunMessages
//     (prior history)
//
// The façade delegates orchestration to team.Team while keeping setup and
// usage ergonomics concise. Defaults are safe for local development and
// testing; production deployments typically supply a structured logger.
package agentteam

import (
	"github.com/hupe1980/agentteam/agent"
	"github.com/hupe1980/agentteam/logging"
	"github.com/hupe1980/agentteam/model"
	"github.com/hupe1980/agentteam/team"
)

// Options configures the Team built by New.
type Options struct {
	// Logger receives structured orchestration events (defaults to NoOp).
	Logger logging.Logger
	// DefaultModel is the model identifier used when a run does not name one.
	DefaultModel string
	// MaxTurns bounds the turn loop per run.
	MaxTurns int
}

// New assembles a Team from a model client and its member agents. The first
// agent acts as the entry point of every conversation.
func New(llm model.Model, agents []*agent.Agent, optFns ...func(o *Options)) *team.Team {
	opts := Options{
		Logger:       logging.NoOpLogger{},
		DefaultModel: team.DefaultModel,
		MaxTurns:     team.DefaultMaxTurns,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	tm := team.New(llm, func(o *team.Options) {
		o.Logger = opts.Logger
		o.DefaultModel = opts.DefaultModel
		o.MaxTurns = opts.MaxTurns
	})
	tm.AddAgents(agents...)

	return tm
}
