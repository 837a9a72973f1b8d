package tool

import "context"

// switchTool requests transfer of the conversation to a fixed target agent.
// Instances are synthesized by the team for every ordered agent pair; the
// tool itself carries no state mutation, it only reports the requested
// handoff through its Result.
type switchTool struct {
	name        string
	target      string
	description string
}

// NewSwitchTool constructs a zero-argument switch tool. name is the wire
// identifier (switch_to_<normalized agent name>), target the exact name of
// the agent to hand the conversation to.
func NewSwitchTool(name, target, description string) Tool {
	return &switchTool{name: name, target: target, description: description}
}

func (t *switchTool) Name() string { return t.name }

func (t *switchTool) Description() string { return t.description }

func (t *switchTool) Params() []Param { return nil }

func (t *switchTool) Call(_ context.Context, _ map[string]any) (Result, error) {
	return SwitchResult(t.target), nil
}

// IsSwitchTool reports whether a tool is a synthesized switch tool. The team
// uses it to strip previously generated switch tools before regeneration.
func IsSwitchTool(t Tool) bool {
	_, ok := t.(*switchTool)
	return ok
}
