// Package tool implements the tool calling subsystem that lets strategies
// invoke structured capabilities (APIs, computations, side effects) with
// schema validated arguments and a uniform outcome classification.
package tool

import (
	"context"
	"encoding/json"
	"fmt"
)

// Tool defines the contract for extending an agent with a callable action.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions (snake_case names)
//   - Define a proper JSON schema for arguments
//   - Return *ValidationError for intentional argument rejection
//   - Be safe for concurrent use (tools in one batch run in parallel)
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description provided to the model
	// so it understands when and how to use the tool.
	Description() string

	// Schema returns a JSON schema describing the expected argument format.
	Schema() map[string]any

	// Execute runs the tool with raw JSON arguments. Implementations decode
	// and validate the arguments themselves; FunctionTool does both against
	// the declared schema before invoking the wrapped function.
	Execute(ctx context.Context, args json.RawMessage) (any, error)
}

// ValidationError is the distinguished error kind tool authors return to
// signal an intentional argument rejection. The execution subsystem reports
// it through a dedicated validation-error event instead of a generic failure.
type ValidationError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Tool != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Tool, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a ValidationError for the given tool.
func NewValidationError(tool, format string, args ...any) *ValidationError {
	return &ValidationError{Tool: tool, Message: fmt.Sprintf(format, args...)}
}

// DecodeError reports that raw tool-call arguments could not be decoded into
// the tool's argument type. Recoverable: the execution subsystem converts it
// into a tool-failure result fed back into the conversation.
type DecodeError struct {
	Tool  string
	Cause error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode arguments for %s: %v", e.Tool, e.Cause)
}

// Unwrap returns the underlying decode cause.
func (e *DecodeError) Unwrap() error { return e.Cause }
