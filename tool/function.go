package tool

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hupe1980/agentteam/internal/util"
)

// ValidationError represents parameter validation errors with detailed information.
type ValidationError = util.ValidationError

// FunctionTool is a value-type adapter that exposes a plain Go function as an
// AgentTeam tool.
//
// Responsibilities:
//   - Holds the ordered parameter declarations of the wrapped function
//   - Fills declared defaults and validates model supplied arguments before
//     execution
//   - Normalizes error handling so callers receive *ToolError with
//     consistent codes:
//     VALIDATION_ERROR -> missing or type-mismatched arguments
//     EXECUTION_ERROR  -> underlying function returned an error (non-ToolError)
//     (custom codes preserved if the function returns *ToolError directly)
//
// A FunctionTool has no internal mutable state after construction and is safe
// for concurrent use by multiple goroutines.
type FunctionTool struct {
	// Tool identifier (snake_case recommended)
	name string
	// Human-readable description shown to models
	description string
	// Ordered parameter declarations
	params []Param
	// User supplied implementation; receives already-validated args
	fn func(ctx context.Context, args map[string]any) (string, error)
}

// New constructs a FunctionTool from explicit parameter declarations and a
// function.
//
// Example:
//
//	sumTool := tool.New(
//	  "calculate_sum",
//	  "Calculate the sum of two numbers",
//	  []tool.Param{
//	    {Name: "a", Type: "number", Required: true},
//	    {Name: "b", Type: "number", Required: true},
//	  },
//	  func(_ context.Context, args map[string]any) (string, error) {
//	    return fmt.Sprintf("%v", args["a"].(float64)+args["b"].(float64)), nil
//	  },
//	)
func New(
	name, description string,
	params []Param,
	fn func(ctx context.Context, args map[string]any) (string, error),
) *FunctionTool {
	return &FunctionTool{
		name:        name,
		description: description,
		params:      params,
		fn:          fn,
	}
}

// NewFromStruct derives the parameter declarations from a struct using
// reflection over json and description tags. Pointer and omitempty fields
// become optional.
//
// Example:
//
//	type SumArgs struct {
//	  A float64 `json:"a" description:"First addend"`
//	  B float64 `json:"b" description:"Second addend"`
//	}
//
//	sumTool := tool.NewFromStruct("calculate_sum", "Calculate the sum of two numbers", SumArgs{}, fn)
func NewFromStruct(
	name, description string,
	structType any,
	fn func(ctx context.Context, args map[string]any) (string, error),
) *FunctionTool {
	return New(name, description, paramsFromStruct(structType), fn)
}

// Name returns the unique tool name used in tool-call resolution.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the short natural language description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// Params returns the ordered parameter declarations.
func (t *FunctionTool) Params() []Param {
	out := make([]Param, len(t.params))
	copy(out, t.params)
	return out
}

// Validate fills declared defaults and checks the supplied arguments against
// the parameter declarations. It returns a new argument map; the input map is
// not modified. Unknown extra arguments are passed through untouched.
func (t *FunctionTool) Validate(args map[string]any) (map[string]any, error) {
	validated := make(map[string]any, len(args))
	for k, v := range args {
		validated[k] = v
	}

	for _, p := range t.params {
		value, present := validated[p.Name]
		if !present {
			if p.Default != nil {
				validated[p.Name] = p.Default
				continue
			}
			if p.Required {
				return nil, &ValidationError{Field: p.Name, Message: "required field is missing"}
			}
			continue
		}
		if !util.ValidType(value, p.Type) {
			return nil, &ValidationError{
				Field:   p.Name,
				Value:   value,
				Message: fmt.Sprintf("expected type %s, got %T", p.Type, value),
			}
		}
	}

	return validated, nil
}

// Call validates the provided args then invokes the underlying function.
// Validation or execution failures are wrapped (or passed through) as
// *ToolError for uniform downstream handling.
func (t *FunctionTool) Call(ctx context.Context, args map[string]any) (Result, error) {
	validated, err := t.Validate(args)
	if err != nil {
		return Result{}, &ToolError{
			Tool:    t.name,
			Message: fmt.Sprintf("parameter validation failed: %v", err),
			Code:    CodeValidation,
			Details: err,
		}
	}

	text, err := t.fn(ctx, validated)
	if err != nil {
		if toolErr, ok := err.(*ToolError); ok { // Already a ToolError -> forward
			return Result{}, toolErr
		}
		return Result{}, &ToolError{
			Tool:    t.name,
			Message: err.Error(),
			Code:    CodeExecution,
		}
	}

	return TextResult(text), nil
}

// paramsFromStruct builds ordered parameter declarations from the exported
// fields of a struct type.
func paramsFromStruct(structType any) []Param {
	t := reflect.TypeOf(structType)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var params []Param
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := util.JSONFieldName(field)
		if name == "" {
			continue
		}
		params = append(params, Param{
			Name:        name,
			Type:        util.JSONType(field.Type),
			Description: field.Tag.Get("description"),
			Required:    !util.HasOmitEmpty(field) && field.Type.Kind() != reflect.Ptr,
		})
	}

	return params
}
