package tool

import (
	"context"
	"encoding/json"
	"sync"

	schemavalidator "github.com/santhosh-tekuri/jsonschema/v5"
)

// FunctionTool is a generic adapter exposing a plain Go function as a Tool.
//
// Responsibilities:
//   - Derives the argument JSON schema from the type parameter via reflection
//   - Validates raw arguments against that schema before decoding
//   - Decodes arguments into the typed struct handed to the function
//   - Surfaces failures with the distinguished error kinds the execution
//     subsystem classifies (*ValidationError, *DecodeError, plain error)
//
// A FunctionTool has no mutable state after construction (the lazily compiled
// validator excepted) and is safe for concurrent use by multiple goroutines.
type FunctionTool[T any] struct {
	name        string
	description string
	schema      map[string]any
	fn          func(ctx context.Context, args T) (any, error)

	compileOnce sync.Once
	compiled    *schemavalidator.Schema
	compileErr  error
}

// NewFunctionTool constructs a tool from an argument struct type and a
// function.
//
// Example:
//
//	type SumArgs struct {
//	    A float64 `json:"a" jsonschema:"description=First addend"`
//	    B float64 `json:"b" jsonschema:"description=Second addend"`
//	}
//
//	sum := tool.NewFunctionTool("calculate_sum", "Calculate the sum of two numbers",
//	    func(ctx context.Context, args SumArgs) (any, error) {
//	        return args.A + args.B, nil
//	    })
func NewFunctionTool[T any](name, description string, fn func(ctx context.Context, args T) (any, error)) *FunctionTool[T] {
	return &FunctionTool[T]{
		name:        name,
		description: description,
		schema:      DeriveSchema[T](),
		fn:          fn,
	}
}

// Name returns the unique tool name used in tool-call routing.
func (t *FunctionTool[T]) Name() string { return t.name }

// Description returns the natural language description exposed to models.
func (t *FunctionTool[T]) Description() string { return t.description }

// Schema returns the derived JSON schema describing expected arguments.
func (t *FunctionTool[T]) Schema() map[string]any { return t.schema }

// Execute validates the raw arguments against the derived schema, decodes
// them into T and invokes the wrapped function.
//
// Error semantics:
//
//	schema violation            -> *ValidationError
//	undecodable arguments       -> *DecodeError
//	fn returns *ValidationError -> forwarded unchanged
//	fn returns other error      -> forwarded unchanged (execution failure)
func (t *FunctionTool[T]) Execute(ctx context.Context, raw json.RawMessage) (any, error) {
	t.compileOnce.Do(func() {
		t.compiled, t.compileErr = compileSchema(t.name, t.schema)
	})
	if t.compileErr != nil {
		return nil, t.compileErr
	}

	if err := validateArgs(t.name, t.compiled, raw); err != nil {
		return nil, err
	}

	var args T
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, &DecodeError{Tool: t.name, Cause: err}
		}
	}

	return t.fn(ctx, args)
}
