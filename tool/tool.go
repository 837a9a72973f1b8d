// Package tool implements the function calling subsystem that lets agents
// invoke structured capabilities (APIs, computations, lookups) with schema
// validated arguments, consistent error handling and signatures suitable for
// LLM guidance.
package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Tool defines the interface for extending agent capabilities with callable
// functions.
//
// Tool implementations should:
//   - Provide clear, descriptive names following snake_case conventions
//   - Declare every accepted parameter with a JSON schema type tag
//   - Handle errors gracefully and return business failures as result text
//   - Be free of orchestration side effects; control transfer is expressed
//     through the Result variant, never by mutating external state
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of what this tool
	// does. It is surfaced to the LLM to guide tool selection.
	Description() string

	// Params returns the ordered parameter declarations of the tool.
	Params() []Param

	// Call executes the tool with raw arguments decoded from the model's
	// tool-call JSON. Arguments are validated against the declared Params
	// before execution.
	Call(ctx context.Context, args map[string]any) (Result, error)
}

// Param declares a single tool parameter.
type Param struct {
	Name        string // wire name of the argument
	Type        string // JSON schema type tag: string, integer, number, boolean, array, object
	Description string // optional, surfaced in the signature
	Default     any    // filled in when the argument is absent; nil means no default
	Required    bool   // absence is a validation error when true and Default is nil
}

// ResultKind discriminates tool invocation outcomes.
type ResultKind int

const (
	// ResultText is a plain textual observation for the model.
	ResultText ResultKind = iota
	// ResultSwitchAgent requests transfer of the conversation to Target.
	ResultSwitchAgent
)

// Result is the outcome of a tool invocation. Text always carries the
// observation payload fed back into the conversation; for ResultSwitchAgent
// it is the sentinel {"assistant": "<name>"} payload and Target names the
// agent that should take over. The turn loop pattern-matches on Kind.
type Result struct {
	Kind   ResultKind
	Text   string
	Target string
}

// TextResult wraps plain observation text.
func TextResult(text string) Result { return Result{Kind: ResultText, Text: text} }

// SwitchResult requests a handoff to the named agent.
func SwitchResult(target string) Result {
	payload, _ := json.Marshal(struct {
		Assistant string `json:"assistant"`
	}{Assistant: target})
	return Result{Kind: ResultSwitchAgent, Text: string(payload), Target: target}
}

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

// Error codes used by ToolError.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
)

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}

// Signature renders the machine-checkable signature of a tool as JSON:
// name, description and a minimal JSON schema of its parameters. Property
// order follows the declared parameter order.
func Signature(t Tool) string {
	var props bytes.Buffer
	props.WriteByte('{')

	var required []string
	for i, p := range t.Params() {
		if i > 0 {
			props.WriteByte(',')
		}
		key, _ := json.Marshal(p.Name)
		props.Write(key)
		props.WriteByte(':')

		prop := map[string]any{"type": p.Type}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		val, _ := json.Marshal(prop)
		props.Write(val)

		if p.Required {
			required = append(required, p.Name)
		}
	}
	props.WriteByte('}')

	sig, _ := json.Marshal(struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Parameters  struct {
			Type       string          `json:"type"`
			Properties json.RawMessage `json:"properties"`
			Required   []string        `json:"required,omitempty"`
		} `json:"parameters"`
	}{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: struct {
			Type       string          `json:"type"`
			Properties json.RawMessage `json:"properties"`
			Required   []string        `json:"required,omitempty"`
		}{
			Type:       "object",
			Properties: props.Bytes(),
			Required:   required,
		},
	})

	return string(sig)
}
