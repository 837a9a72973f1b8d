package agent

import (
	"strings"

	"github.com/hupe1980/agentteam/tool"
)

// Instruction models an agent's prompt as an immutable base template plus
// composed injected sections (handoff preamble, tool signature block) that
// are rendered fresh on every use. Because sections are never written back
// into the base, double injection is structurally impossible no matter how
// often the team re-registers agents.
type Instruction struct {
	base     string
	preamble string
}

// NewInstruction creates an Instruction from a static base template.
func NewInstruction(base string) Instruction { return Instruction{base: base} }

// Base returns the unmodified base template.
func (i Instruction) Base() string { return i.base }

// SetPreamble installs (or replaces) the protocol preamble section.
func (i *Instruction) SetPreamble(preamble string) { i.preamble = preamble }

// Preamble returns the currently installed preamble section.
func (i Instruction) Preamble() string { return i.preamble }

// Render assembles the full system prompt: preamble, base template and, when
// tools are supplied, a signature block. The signature block is skipped when
// the base template already mentions tools, to avoid duplication.
func (i Instruction) Render(tools []tool.Tool) string {
	var b strings.Builder

	if i.preamble != "" {
		b.WriteString(i.preamble)
		b.WriteString("\n\n")
	}
	b.WriteString(i.base)

	if len(tools) > 0 && !strings.Contains(strings.ToLower(i.base), "tools") {
		b.WriteString("\n\nAvailable tools:\n")
		for _, t := range tools {
			b.WriteString(tool.Signature(t))
			b.WriteString("\n")
		}
	}

	return b.String()
}
