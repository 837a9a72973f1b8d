package team

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hupe1980/agentteam/core"
	"github.com/hupe1980/agentteam/tag"
	"github.com/hupe1980/agentteam/tool"
)

// TurnLimitMessage is returned when a run exhausts its turn budget without
// producing a terminal answer. This is a normal, non-exceptional termination.
const TurnLimitMessage = "The conversation reached the maximum number of turns. Please start again."

// ErrNoActiveAgent is returned by Run when the team has no agent to start
// from. It is the only hard precondition failure; every other problem is
// converted to observation text and fed back into the conversation.
var ErrNoActiveAgent = errors.New("team has no active agent")

// intermediateMarkers flag untagged completions that describe an in-progress
// state rather than an answer; such text is never treated as terminal.
var intermediateMarkers = []string{"switch_to", "tool_call", "工具调用", "正在处理", "请稍等"}

// RunOptions overrides per-run orchestration settings.
type RunOptions struct {
	// MaxTurns bounds the turn loop; 0 keeps the team default.
	MaxTurns int
	// Model names the model identifier; "" keeps the team default.
	Model string
}

// Run drives the conversation for a single user utterance until a terminal
// answer, the turn budget, or a model failure. The utterance is wrapped in
// <question> tags before entering the history.
func (t *Team) Run(ctx context.Context, input string, optFns ...func(o *RunOptions)) (string, error) {
	if t.current == nil {
		return "", ErrNoActiveAgent
	}

	history := core.NewHistory(t.current.SystemPrompt())
	history.Append(core.RoleUser, fmt.Sprintf("<question>%s</question>", input))

	return t.run(ctx, history, t.runOptions(optFns))
}

// RunMessages drives the conversation starting from a prior history. The
// system slot is rebuilt from the active agent; supplied messages follow in
// order, incomplete records are skipped.
func (t *Team) RunMessages(ctx context.Context, messages []core.Message, optFns ...func(o *RunOptions)) (string, error) {
	if t.current == nil {
		return "", ErrNoActiveAgent
	}

	history := core.NewHistory(t.current.SystemPrompt())
	for _, msg := range messages {
		if msg.Role == "" || msg.Content == "" {
			continue
		}
		history.Append(msg.Role, msg.Content)
	}

	return t.run(ctx, history, t.runOptions(optFns))
}

func (t *Team) runOptions(optFns []func(o *RunOptions)) RunOptions {
	opts := RunOptions{MaxTurns: t.maxTurns, Model: t.defaultModel}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = t.maxTurns
	}
	if opts.Model == "" {
		opts.Model = t.defaultModel
	}
	return opts
}

// run is the turn loop: refresh the system slot from the active agent, call
// the model, then interpret the tagged completion as a terminal answer, a
// thought, or a batch of tool calls whose observations are fed back into
// the history.
func (t *Team) run(ctx context.Context, history *core.History, opts RunOptions) (string, error) {
	runID := core.NewID()
	t.logger.Info("team.run.start",
		"run_id", runID,
		"agent", t.current.Name(),
		"model", opts.Model,
		"max_turns", opts.MaxTurns,
	)

	for turn := 0; turn < opts.MaxTurns; turn++ {
		// The active agent may have changed on the previous turn.
		history.SetSystem(t.current.SystemPrompt())

		completion, err := t.llm.Complete(ctx, history.Messages(), opts.Model)
		if err != nil {
			t.logger.Error("team.model.error", "run_id", runID, "turn", turn, "error", err.Error())
			return "", fmt.Errorf("model completion failed: %w", err)
		}

		spans := tag.Scan(completion)

		if response, ok := firstSpan(spans, tag.KindResponse); ok {
			t.logger.Info("team.run.complete", "run_id", runID, "turns", turn+1)
			return response.Text, nil
		}

		toolCalls := filterSpans(spans, tag.KindToolCall)

		if len(toolCalls) == 0 {
			if answer, ok := fallbackAnswer(completion); ok {
				t.logger.Info("team.run.complete", "run_id", runID, "turns", turn+1, "untagged", true)
				return answer, nil
			}
		}

		if thought, ok := firstSpan(spans, tag.KindThought); ok {
			t.logger.Debug("team.thought", "run_id", runID, "agent", t.current.Name(), "thought", thought.Text)
		}

		history.Append(core.RoleAssistant, completion)

		if len(toolCalls) == 0 {
			continue
		}

		observations := t.processToolCalls(ctx, runID, toolCalls)
		history.Append(core.RoleUser, serializeObservations(observations))

		// A switch tool may have changed the active agent during the batch;
		// refresh the system slot eagerly so the history stays consistent
		// even if inspected mid-turn.
		history.SetSystem(t.current.SystemPrompt())
	}

	t.logger.Warn("team.run.turn_limit", "run_id", runID, "max_turns", opts.MaxTurns)
	return TurnLimitMessage, nil
}

// fallbackAnswer decides whether an untagged completion counts as a terminal
// answer: it must be non-trivial in length and free of intermediate-state
// markers. This covers models that skip the tagging convention.
func fallbackAnswer(completion string) (string, bool) {
	content := strings.TrimSpace(completion)
	if utf8.RuneCountInString(content) <= 10 {
		return "", false
	}
	lower := strings.ToLower(content)
	for _, marker := range intermediateMarkers {
		if strings.Contains(lower, marker) {
			return "", false
		}
	}
	return content, true
}

// processToolCalls resolves, validates and executes one batch of tool calls
// against the current agent's tool set, building the observation map. Every
// per-call failure (malformed JSON, unknown tool, validation, execution,
// panic) becomes observation text; none aborts the turn. A call without an
// explicit id is assigned the smallest id not already used in this batch.
func (t *Team) processToolCalls(ctx context.Context, runID string, calls []tag.Span) map[int]string {
	observations := make(map[int]string, len(calls))
	used := make(map[int]bool, len(calls))

	assignID := func(explicit *int) int {
		if explicit != nil {
			used[*explicit] = true
			return *explicit
		}
		id := 0
		for used[id] {
			id++
		}
		used[id] = true
		return id
	}

	for _, span := range calls {
		var call struct {
			Name      string         `json:"name"`
			Arguments map[string]any `json:"arguments"`
			ID        *int           `json:"id"`
		}
		if err := json.Unmarshal([]byte(span.Text), &call); err != nil {
			observations[assignID(nil)] = fmt.Sprintf("failed to parse tool call: %v", err)
			t.logger.Warn("team.tool.malformed", "run_id", runID, "error", err.Error())
			continue
		}

		id := assignID(call.ID)

		impl, ok := t.current.Tool(call.Name)
		if !ok {
			observations[id] = fmt.Sprintf("tool '%s' not found for agent '%s'", call.Name, t.current.Name())
			t.logger.Warn("team.tool.unknown", "run_id", runID, "agent", t.current.Name(), "tool", call.Name)
			continue
		}

		result, err := safeCall(ctx, impl, call.Arguments)
		if err != nil {
			observations[id] = fmt.Sprintf("tool call failed: %v", err)
			t.logger.Error("team.tool.error", "run_id", runID, "tool", call.Name, "error", err.Error())
			continue
		}

		if result.Kind == tool.ResultSwitchAgent {
			target, found := t.byName[result.Target]
			if !found {
				observations[id] = fmt.Sprintf("agent '%s' not found in team", result.Target)
				t.logger.Warn("team.handoff.unknown_agent", "run_id", runID, "target", result.Target)
				continue
			}
			t.current = target
			t.logger.Info("team.handoff", "run_id", runID, "to", target.Name())
		}

		observations[id] = result.Text
		t.logger.Info("team.tool.executed", "run_id", runID, "tool", call.Name, "call_id", id)
	}

	return observations
}

// safeCall executes a tool with panic recovery so a misbehaving tool body
// cannot crash the turn loop.
func safeCall(ctx context.Context, impl tool.Tool, args map[string]any) (result tool.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if args == nil {
		args = map[string]any{}
	}
	return impl.Call(ctx, args)
}

// serializeObservations renders the observation map as a deterministic JSON
// object with numerically sorted integer keys. It is appended to the history
// as a user-role message; the protocol has no dedicated tool-output role.
func serializeObservations(observations map[int]string) string {
	ids := make([]int, 0, len(observations))
	for id := range observations {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var b bytes.Buffer
	b.WriteByte('{')
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		key, _ := json.Marshal(strconv.Itoa(id))
		b.Write(key)
		b.WriteByte(':')
		value, _ := json.Marshal(observations[id])
		b.Write(value)
	}
	b.WriteByte('}')
	return b.String()
}

func firstSpan(spans []tag.Span, kind tag.Kind) (tag.Span, bool) {
	for _, s := range spans {
		if s.Kind == kind {
			return s, true
		}
	}
	return tag.Span{}, false
}

func filterSpans(spans []tag.Span, kind tag.Kind) []tag.Span {
	var out []tag.Span
	for _, s := range spans {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}
