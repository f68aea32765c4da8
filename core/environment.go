package core

import (
	"context"
	"encoding/json"
	"fmt"
)

// ToolResultKind classifies the outcome of a single tool invocation. The
// three kinds make the recoverable/fatal distinction explicit in the type
// system instead of relying on error wrapping conventions.
type ToolResultKind int

const (
	// ToolResultSuccess indicates the tool executed and produced a result.
	ToolResultSuccess ToolResultKind = iota
	// ToolResultValidationError indicates the arguments failed schema
	// validation, could not be decoded, or the tool signalled an intentional
	// validation failure. Recoverable: reported back to the model.
	ToolResultValidationError
	// ToolResultFailure indicates the tool body returned an unexpected error.
	// Recoverable at run level: the model sees the failure and may retry.
	ToolResultFailure
)

// String returns a stable label for the result kind.
func (k ToolResultKind) String() string {
	switch k {
	case ToolResultSuccess:
		return "success"
	case ToolResultValidationError:
		return "validation_error"
	case ToolResultFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// ToolResult is the uniform outcome record for a tool invocation. All three
// kinds carry the identical identifying shape (call id, tool name, arguments)
// so tracing observes failures exactly like successes.
type ToolResult struct {
	CallID    string          `json:"call_id"`
	ToolName  string          `json:"tool_name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
	Kind      ToolResultKind  `json:"kind"`
	Content   any             `json:"content,omitempty"` // populated on success
	Message   string          `json:"message,omitempty"` // populated on validation error / failure
}

// ResponseText renders the result as conversation feedback for the model.
func (r ToolResult) ResponseText() string {
	switch r.Kind {
	case ToolResultSuccess:
		if s, ok := r.Content.(string); ok {
			return s
		}
		b, err := json.Marshal(r.Content)
		if err != nil {
			return fmt.Sprintf("%v", r.Content)
		}
		return string(b)
	case ToolResultValidationError:
		return fmt.Sprintf("tool %s rejected the arguments: %s", r.ToolName, r.Message)
	default:
		return fmt.Sprintf("tool %s failed: %s", r.ToolName, r.Message)
	}
}

// Environment executes tools on behalf of a run and reports problems. The
// default implementation lives in the engine package; features may wrap or
// replace it before a run starts (used by test mocking).
type Environment interface {
	// ExecuteTool executes a single tool call. The returned error is fatal
	// for the run (e.g. unknown tool name); recoverable outcomes are encoded
	// in the ToolResult kind.
	ExecuteTool(ctx context.Context, call ToolCall) (ToolResult, error)

	// ExecuteTools executes a batch of calls concurrently under a supervised
	// scope. An unanticipated failure of one call cancels its siblings and
	// fails the batch as a whole; recoverable per-call outcomes never do.
	// Results preserve the order of calls.
	ExecuteTools(ctx context.Context, calls []ToolCall) ([]ToolResult, error)

	// ReportProblem surfaces a non-tool error encountered while acting on the
	// environment (logged and forwarded to run-error reporting).
	ReportProblem(ctx context.Context, err error)
}
