package team

import (
	"fmt"

	"github.com/hupe1980/agentteam/agent"
	"github.com/hupe1980/agentteam/logging"
	"github.com/hupe1980/agentteam/model"
	"github.com/hupe1980/agentteam/tool"
)

// HandoffPreamble is the protocol preamble prepended to every team member's
// instructions. It documents the handoff convention and the exact wire
// format agents must emit for transfer calls.
const HandoffPreamble = `# System context
You are part of a multi-agent system designed to make agent coordination and
execution easy. The system uses two primary abstractions: agents and handoffs.
An agent comprises instructions and may hand the conversation over to another
agent when appropriate. Handoffs are achieved by calling a switch function,
generally named switch_to_<agent_name>. Transfers between agents are handled
seamlessly in the background; do not mention or draw attention to these
transfers in your conversation with the user.

Important: when you need to hand over to another agent, you must use the
call format:
<tool_call>
{"name": "switch_to_xxx", "arguments": {}, "id": 0}
</tool_call>`

// switchToolPrefix prefixes every synthesized handoff tool name.
const switchToolPrefix = "switch_to_"

// Defaults applied by New when not overridden via Options.
const (
	DefaultModel    = "Qwen/Qwen3-8B"
	DefaultMaxTurns = 10
)

// Options configures a Team instance.
type Options struct {
	// Logger receives structured orchestration events. Defaults to NoOpLogger.
	Logger logging.Logger
	// DefaultModel is the model identifier used when a run does not name one.
	DefaultModel string
	// MaxTurns bounds the turn loop when a run does not override it.
	MaxTurns int
}

// Team owns the agent registry and drives the turn loop. The first agent
// added becomes the initial active agent (typically a triage/reception
// agent).
type Team struct {
	llm          model.Model
	agents       []*agent.Agent
	byName       map[string]*agent.Agent
	current      *agent.Agent
	logger       logging.Logger
	defaultModel string
	maxTurns     int
}

// New creates a Team driven by the given model client.
func New(llm model.Model, optFns ...func(o *Options)) *Team {
	opts := Options{
		Logger:       logging.NoOpLogger{},
		DefaultModel: DefaultModel,
		MaxTurns:     DefaultMaxTurns,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Team{
		llm:          llm,
		byName:       make(map[string]*agent.Agent),
		logger:       opts.Logger,
		defaultModel: opts.DefaultModel,
		maxTurns:     opts.MaxTurns,
	}
}

// AddAgent registers an agent and regenerates the switch tools of every
// member, so each existing agent gains a transfer path to the newcomer and
// vice versa. Adding an agent whose name is already registered is ignored.
func (t *Team) AddAgent(a *agent.Agent) {
	if _, exists := t.byName[a.Name()]; exists {
		t.logger.Warn("team.agent.duplicate", "agent", a.Name())
		return
	}

	t.agents = append(t.agents, a)
	t.byName[a.Name()] = a
	if t.current == nil {
		t.current = a
	}

	t.regenerateSwitchTools()
	t.installPreambles()

	t.logger.Info("team.agent.added", "agent", a.Name(), "team_size", len(t.agents))
}

// AddAgents registers several agents in order.
func (t *Team) AddAgents(agents ...*agent.Agent) {
	for _, a := range agents {
		t.AddAgent(a)
	}
}

// CurrentAgent returns the currently active agent, or nil for an empty team.
func (t *Team) CurrentAgent() *agent.Agent { return t.current }

// Agent looks up a registered agent by name.
func (t *Team) Agent(name string) (*agent.Agent, bool) {
	a, ok := t.byName[name]
	return a, ok
}

// Agents returns a copy of the registry in registration order.
func (t *Team) Agents() []*agent.Agent {
	out := make([]*agent.Agent, len(t.agents))
	copy(out, t.agents)
	return out
}

// switchToolName derives the wire name of the switch tool targeting an agent.
func switchToolName(target string) string {
	return Normalize(switchToolPrefix + target)
}

// regenerateSwitchTools rebuilds the handoff tools of every member: any
// previously synthesized switch tools are stripped first, then each agent
// receives one zero-argument switch tool per other member. Regeneration is
// idempotent.
func (t *Team) regenerateSwitchTools() {
	for _, a := range t.agents {
		a.RemoveSwitchTools()
	}

	for _, a := range t.agents {
		for _, other := range t.agents {
			if other.Name() == a.Name() {
				continue
			}
			name := switchToolName(other.Name())
			if _, exists := a.Tool(name); exists {
				continue
			}

			description := fmt.Sprintf("Transfer the conversation to the %s agent.", other.Name())
			if hd := other.HandoffDescription(); hd != "" {
				description += " " + hd
			}

			if err := a.AddTool(tool.NewSwitchTool(name, other.Name(), description)); err != nil {
				t.logger.Warn("team.switch_tool.collision", "agent", a.Name(), "tool", name, "error", err.Error())
			}
		}
	}
}

// installPreambles installs the handoff protocol preamble on every member.
// The preamble is an injected instruction section, so it renders exactly
// once per agent no matter how often registration runs.
func (t *Team) installPreambles() {
	for _, a := range t.agents {
		a.SetPreamble(HandoffPreamble)
	}
}
