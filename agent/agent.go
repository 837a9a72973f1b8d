package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentteam/core"
	"github.com/hupe1980/agentteam/model"
	"github.com/hupe1980/agentteam/tool"
)

// Options configures an Agent instance.
type Options struct {
	// Tools owned by the agent. Duplicate names are skipped, first wins.
	Tools []tool.Tool
	// Handoffs lists the agents this agent is expected to transfer to.
	Handoffs []*Agent
	// HandoffDescription is surfaced to other agents in the description of
	// the synthesized switch tool targeting this agent.
	HandoffDescription string
}

// Agent is a named bundle of instructions, tools and permitted handoff
// targets. Its shape is immutable after team assembly except for switch-tool
// regeneration and preamble installation, both idempotent.
//
// An Agent is not safe for concurrent mutation; the team serializes access.
type Agent struct {
	name               string
	instruction        Instruction
	tools              []tool.Tool
	byName             map[string]tool.Tool
	handoffs           []*Agent
	handoffDescription string
}

// New creates an Agent with the given unique name and base instructions.
func New(name, instructions string, optFns ...func(o *Options)) *Agent {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	a := &Agent{
		name:               name,
		instruction:        NewInstruction(instructions),
		byName:             make(map[string]tool.Tool),
		handoffs:           opts.Handoffs,
		handoffDescription: opts.HandoffDescription,
	}
	for _, t := range opts.Tools {
		_ = a.AddTool(t)
	}

	return a
}

// Name returns the agent's unique name within a team.
func (a *Agent) Name() string { return a.name }

// HandoffDescription returns the description surfaced to other agents.
func (a *Agent) HandoffDescription() string { return a.handoffDescription }

// Instruction returns the agent's instruction value.
func (a *Agent) Instruction() Instruction { return a.instruction }

// SetPreamble installs the protocol preamble section. Repeated calls with
// the same preamble are no-ops in effect; the preamble renders exactly once.
func (a *Agent) SetPreamble(preamble string) { a.instruction.SetPreamble(preamble) }

// SystemPrompt renders the full system prompt: preamble, base instructions
// and the signatures of the agent's tools.
func (a *Agent) SystemPrompt() string { return a.instruction.Render(a.tools) }

// Tools returns a copy of the agent's tool set in registration order.
func (a *Agent) Tools() []tool.Tool {
	out := make([]tool.Tool, len(a.tools))
	copy(out, a.tools)
	return out
}

// Tool looks up an owned tool by name.
func (a *Agent) Tool(name string) (tool.Tool, bool) {
	t, ok := a.byName[name]
	return t, ok
}

// AddTool registers a tool; tool names are unique per agent.
func (a *Agent) AddTool(t tool.Tool) error {
	if _, exists := a.byName[t.Name()]; exists {
		return fmt.Errorf("agent %q already has a tool named %q", a.name, t.Name())
	}
	a.tools = append(a.tools, t)
	a.byName[t.Name()] = t
	return nil
}

// RemoveSwitchTools strips every synthesized switch tool from the agent.
// The team calls this before regenerating handoff tools so incremental agent
// additions never leave duplicates behind.
func (a *Agent) RemoveSwitchTools() {
	kept := a.tools[:0]
	for _, t := range a.tools {
		if tool.IsSwitchTool(t) {
			delete(a.byName, t.Name())
			continue
		}
		kept = append(kept, t)
	}
	a.tools = kept
}

// Handoffs returns a copy of the declared handoff targets.
func (a *Agent) Handoffs() []*Agent {
	out := make([]*Agent, len(a.handoffs))
	copy(out, a.handoffs)
	return out
}

// AddHandoff declares another agent as a permitted transfer target. Handoff
// relationships are not required to be symmetric.
func (a *Agent) AddHandoff(target *Agent) { a.handoffs = append(a.handoffs, target) }

// Ask performs a single model turn with this agent's instructions and the
// given question. It runs no tool or handoff logic and exists for testing
// and inspection, not for orchestration.
func (a *Agent) Ask(ctx context.Context, llm model.Model, modelID, question string) (string, error) {
	messages := []core.Message{
		{Role: core.RoleSystem, Content: a.SystemPrompt()},
		{Role: core.RoleUser, Content: question},
	}
	return llm.Complete(ctx, messages, modelID)
}
