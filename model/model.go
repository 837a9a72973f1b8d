package model

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentteam/core"
)

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "scripted", etc.
}

// Model is the minimal interface required by agents and the team loop to
// drive generation. Complete sends the ordered history and returns the full
// completion text for the given model identifier (providers may treat an
// empty identifier as their configured default).
type Model interface {
	Complete(ctx context.Context, messages []core.Message, model string) (string, error)

	// Info returns information about the model implementation.
	Info() Info
}

// ScriptedModel is a deterministic in-memory Model for tests and offline
// examples. It replays a fixed sequence of completions, one per Complete
// call, repeating the last entry once the script is exhausted, and records
// every request for inspection.
type ScriptedModel struct {
	completions []string
	requests    [][]core.Message
	calls       int
}

// NewScriptedModel constructs a ScriptedModel replaying the given completions.
func NewScriptedModel(completions ...string) *ScriptedModel {
	return &ScriptedModel{completions: completions}
}

// Complete implements Model; returns the next scripted completion.
func (m *ScriptedModel) Complete(_ context.Context, messages []core.Message, _ string) (string, error) {
	snapshot := make([]core.Message, len(messages))
	copy(snapshot, messages)
	m.requests = append(m.requests, snapshot)

	if len(m.completions) == 0 {
		return "", fmt.Errorf("scripted model has no completions")
	}
	idx := m.calls
	if idx >= len(m.completions) {
		idx = len(m.completions) - 1
	}
	m.calls++
	return m.completions[idx], nil
}

// Info implements Model.
func (m *ScriptedModel) Info() Info { return Info{Name: "scripted", Provider: "scripted"} }

// Calls returns how many times Complete was invoked.
func (m *ScriptedModel) Calls() int { return m.calls }

// Requests returns the recorded message snapshots, one per Complete call.
func (m *ScriptedModel) Requests() [][]core.Message { return m.requests }
