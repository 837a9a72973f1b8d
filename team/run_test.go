package team

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/hupe1980/agentteam/agent"
	"github.com/hupe1980/agentteam/core"
	"github.com/hupe1980/agentteam/model"
	"github.com/hupe1980/agentteam/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool() tool.Tool {
	return tool.New("echo", "Echo the input text", []tool.Param{
		{Name: "text", Type: "string", Required: true},
	}, func(_ context.Context, args map[string]any) (string, error) {
		return "echo: " + args["text"].(string), nil
	})
}

// lastMessage returns the final message of a recorded model request.
func lastMessage(req []core.Message) core.Message { return req[len(req)-1] }

func TestRun_TerminalResponseFirstTurn(t *testing.T) {
	llm := model.NewScriptedModel("<response>你好！我是测试助手。</response>")
	tm := New(llm)
	tm.AddAgent(agent.New("测试助手", "你是一个测试助手。"))

	got, err := tm.Run(context.Background(), "你好", func(o *RunOptions) { o.MaxTurns = 3 })
	require.NoError(t, err)
	assert.Equal(t, "你好！我是测试助手。", got)

	// Single string input is wrapped in question tags.
	req := llm.Requests()[0]
	assert.Equal(t, "<question>你好</question>", lastMessage(req).Content)
	assert.Equal(t, core.RoleSystem, req[0].Role)
}

func TestRun_HandoffSwitchesActiveAgent(t *testing.T) {
	llm := model.NewScriptedModel(
		"<thought>B should handle this</thought>\n<tool_call>{\"name\": \"switch_to_b\", \"arguments\": {}, \"id\": 0}</tool_call>",
		"<response>answer from B</response>",
	)
	tm := New(llm)
	a := agent.New("A", "You are A.", func(o *agent.Options) { o.HandoffDescription = "General triage." })
	b := agent.New("B", "You are B.")
	a.AddHandoff(b)
	b.AddHandoff(a)
	tm.AddAgents(a, b)

	got, err := tm.Run(context.Background(), "please ask B")
	require.NoError(t, err)
	assert.Equal(t, "answer from B", got)
	assert.Equal(t, "B", tm.CurrentAgent().Name())

	// The second model call must already carry B's instructions in the
	// system slot.
	require.Len(t, llm.Requests(), 2)
	second := llm.Requests()[1]
	assert.Equal(t, b.SystemPrompt(), second[0].Content)

	// The observation fed back carries the sentinel transfer payload.
	obs := lastMessage(second)
	assert.Equal(t, core.RoleUser, obs.Role)
	assert.Contains(t, obs.Content, `{\"assistant\":\"B\"}`)
}

func TestRun_TurnLimitReturnsFixedMessage(t *testing.T) {
	// The model keeps asking for an unresolvable tool and never produces a
	// terminal answer.
	llm := model.NewScriptedModel(`<tool_call>{"name": "no_such_tool", "arguments": {}, "id": 0}</tool_call>`)
	tm := New(llm)
	tm.AddAgent(agent.New("A", "You are A."))

	got, err := tm.Run(context.Background(), "hello", func(o *RunOptions) { o.MaxTurns = 3 })
	require.NoError(t, err)
	assert.Equal(t, TurnLimitMessage, got)
	assert.Equal(t, 3, llm.Calls())
}

func TestRun_UnknownToolBecomesObservation(t *testing.T) {
	llm := model.NewScriptedModel(
		`<tool_call>{"name": "missing_tool", "arguments": {}, "id": 0}</tool_call>`,
		"<response>recovered</response>",
	)
	tm := New(llm)
	tm.AddAgent(agent.New("A", "You are A."))

	got, err := tm.Run(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)

	obs := lastMessage(llm.Requests()[1])
	assert.Contains(t, obs.Content, "tool 'missing_tool' not found for agent 'A'")
}

func TestRun_ToolObservationFedBack(t *testing.T) {
	llm := model.NewScriptedModel(
		`<tool_call>{"name": "echo", "arguments": {"text": "ping"}, "id": 5}</tool_call>`,
		"<response>done</response>",
	)
	tm := New(llm)
	tm.AddAgent(agent.New("A", "You are A.", func(o *agent.Options) {
		o.Tools = []tool.Tool{echoTool()}
	}))

	got, err := tm.Run(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "done", got)

	var observations map[string]string
	obs := lastMessage(llm.Requests()[1])
	require.NoError(t, json.Unmarshal([]byte(obs.Content), &observations))
	assert.Equal(t, map[string]string{"5": "echo: ping"}, observations)
}

func TestRun_AutoAssignsDistinctCallIDs(t *testing.T) {
	completion := `<tool_call>{"name": "echo", "arguments": {"text": "one"}}</tool_call>
<tool_call>{"name": "echo", "arguments": {"text": "two"}}</tool_call>`
	llm := model.NewScriptedModel(completion, "<response>done</response>")
	tm := New(llm)
	tm.AddAgent(agent.New("A", "You are A.", func(o *agent.Options) {
		o.Tools = []tool.Tool{echoTool()}
	}))

	_, err := tm.Run(context.Background(), "hello")
	require.NoError(t, err)

	// Both id-less calls get distinct observation slots instead of
	// overwriting each other.
	var observations map[string]string
	require.NoError(t, json.Unmarshal([]byte(lastMessage(llm.Requests()[1]).Content), &observations))
	assert.Equal(t, map[string]string{"0": "echo: one", "1": "echo: two"}, observations)
}

func TestRun_MalformedToolCallBecomesObservation(t *testing.T) {
	llm := model.NewScriptedModel(
		"<tool_call>{not valid json}</tool_call>",
		"<response>recovered</response>",
	)
	tm := New(llm)
	tm.AddAgent(agent.New("A", "You are A."))

	got, err := tm.Run(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
	assert.Contains(t, lastMessage(llm.Requests()[1]).Content, "failed to parse tool call")
}

func TestRun_ValidationFailureBecomesObservation(t *testing.T) {
	llm := model.NewScriptedModel(
		`<tool_call>{"name": "echo", "arguments": {}, "id": 0}</tool_call>`,
		"<response>recovered</response>",
	)
	tm := New(llm)
	tm.AddAgent(agent.New("A", "You are A.", func(o *agent.Options) {
		o.Tools = []tool.Tool{echoTool()}
	}))

	got, err := tm.Run(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)

	obs := lastMessage(llm.Requests()[1]).Content
	assert.Contains(t, obs, "tool call failed")
	assert.Contains(t, obs, "VALIDATION_ERROR")
}

func TestRun_PanickingToolBecomesObservation(t *testing.T) {
	bomb := tool.New("bomb", "Panics", nil, func(_ context.Context, _ map[string]any) (string, error) {
		panic("kaboom")
	})
	llm := model.NewScriptedModel(
		`<tool_call>{"name": "bomb", "arguments": {}, "id": 0}</tool_call>`,
		"<response>recovered</response>",
	)
	tm := New(llm)
	tm.AddAgent(agent.New("A", "You are A.", func(o *agent.Options) {
		o.Tools = []tool.Tool{bomb}
	}))

	got, err := tm.Run(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
	assert.Contains(t, lastMessage(llm.Requests()[1]).Content, "panic")
}

func TestRun_UntaggedCompletionIsTerminalFallback(t *testing.T) {
	llm := model.NewScriptedModel("This is a direct answer with no protocol tags at all.")
	tm := New(llm)
	tm.AddAgent(agent.New("A", "You are A."))

	got, err := tm.Run(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "This is a direct answer with no protocol tags at all.", got)
}

func TestRun_TrivialUntaggedCompletionIsNotTerminal(t *testing.T) {
	llm := model.NewScriptedModel("ok")
	tm := New(llm)
	tm.AddAgent(agent.New("A", "You are A."))

	got, err := tm.Run(context.Background(), "hello", func(o *RunOptions) { o.MaxTurns = 2 })
	require.NoError(t, err)
	assert.Equal(t, TurnLimitMessage, got)
	assert.Equal(t, 2, llm.Calls())
}

func TestRun_IntermediateMarkerIsNotTerminal(t *testing.T) {
	llm := model.NewScriptedModel("I will now call switch_to_billing to hand this over, one moment.")
	tm := New(llm)
	tm.AddAgent(agent.New("A", "You are A."))

	got, err := tm.Run(context.Background(), "hello", func(o *RunOptions) { o.MaxTurns = 2 })
	require.NoError(t, err)
	assert.Equal(t, TurnLimitMessage, got)
}

func TestRun_NoActiveAgent(t *testing.T) {
	tm := New(model.NewScriptedModel("<response>never</response>"))

	_, err := tm.Run(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNoActiveAgent)

	_, err = tm.RunMessages(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoActiveAgent)
}

func TestRun_ModelErrorAborts(t *testing.T) {
	llm := model.NewScriptedModel() // empty script -> Complete errors
	tm := New(llm)
	tm.AddAgent(agent.New("A", "You are A."))

	_, err := tm.Run(context.Background(), "hello")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "model completion failed")
}

func TestRunMessages_PriorHistory(t *testing.T) {
	llm := model.NewScriptedModel("<response>continuing</response>")
	tm := New(llm)
	a := agent.New("A", "You are A.")
	tm.AddAgent(a)

	prior := []core.Message{
		{Role: core.RoleUser, Content: "first question"},
		{Role: core.RoleAssistant, Content: "first answer"},
		{Role: "", Content: "dropped"},
		{Role: core.RoleUser, Content: "follow-up"},
	}

	got, err := tm.RunMessages(context.Background(), prior)
	require.NoError(t, err)
	assert.Equal(t, "continuing", got)

	req := llm.Requests()[0]
	require.Len(t, req, 4) // system + 3 valid prior messages
	assert.Equal(t, a.SystemPrompt(), req[0].Content)
	assert.Equal(t, "first question", req[1].Content)
	assert.Equal(t, "follow-up", req[3].Content)
}

func TestSerializeObservations_Deterministic(t *testing.T) {
	got := serializeObservations(map[int]string{2: "b", 0: "a", 10: "c"})
	assert.Equal(t, `{"0":"a","2":"b","10":"c"}`, got)
	assert.Equal(t, "{}", serializeObservations(nil))
}

func TestFallbackAnswer(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"A clear standalone answer for the user.", true},
		{"short", false},
		{"calling tool_call machinery now, stand by", false},
		{"正在处理您的请求，请稍等一下。", false},
	}
	for _, tt := range tests {
		_, ok := fallbackAnswer(tt.in)
		assert.Equal(t, tt.want, ok, fmt.Sprintf("input %q", tt.in))
	}
}
