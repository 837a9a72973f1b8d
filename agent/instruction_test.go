package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/hupe1980/agentteam/tool"
	"github.com/stretchr/testify/assert"
)

func TestInstruction_RenderPlain(t *testing.T) {
	inst := NewInstruction("You are a helper.")
	assert.Equal(t, "You are a helper.", inst.Render(nil))
}

func TestInstruction_PreambleRendersExactlyOnce(t *testing.T) {
	inst := NewInstruction("You are a helper.")
	inst.SetPreamble("PROTOCOL PREAMBLE")
	inst.SetPreamble("PROTOCOL PREAMBLE")
	inst.SetPreamble("PROTOCOL PREAMBLE")

	rendered := inst.Render(nil)
	assert.Equal(t, 1, strings.Count(rendered, "PROTOCOL PREAMBLE"))
	assert.True(t, strings.HasPrefix(rendered, "PROTOCOL PREAMBLE"))
	assert.True(t, strings.HasSuffix(rendered, "You are a helper."))
}

func TestInstruction_ToolBlockAppended(t *testing.T) {
	inst := NewInstruction("You calculate prices.")
	tl := tool.New("calculate_price", "Calculate a discounted price", []tool.Param{
		{Name: "base_price", Type: "number", Required: true},
	}, func(_ context.Context, _ map[string]any) (string, error) { return "", nil })

	rendered := inst.Render([]tool.Tool{tl})
	assert.Contains(t, rendered, "Available tools:")
	assert.Contains(t, rendered, `"name":"calculate_price"`)
}

func TestInstruction_ToolBlockSkippedWhenBaseMentionsTools(t *testing.T) {
	inst := NewInstruction("You calculate prices. Your tools: calculate_price.")
	tl := tool.New("calculate_price", "Calculate a discounted price", nil,
		func(_ context.Context, _ map[string]any) (string, error) { return "", nil })

	rendered := inst.Render([]tool.Tool{tl})
	assert.NotContains(t, rendered, "Available tools:")
}

func TestInstruction_RenderIsFresh(t *testing.T) {
	// Rendering must never write sections back into the base template.
	inst := NewInstruction("Base.")
	inst.SetPreamble("P")
	_ = inst.Render(nil)
	_ = inst.Render(nil)
	assert.Equal(t, "Base.", inst.Base())
}
