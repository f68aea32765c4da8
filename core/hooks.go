package core

import "context"

// RunHooks is the slice of the feature pipeline visible from inside a run:
// the interception points fired by prebuilt strategy nodes and the tool
// environment. The full pipeline (node/agent lifecycle hooks) lives in the
// feature package and implements this interface; keeping the narrow contract
// here avoids a dependency cycle.
//
// Handlers are invoked synchronously and complete before execution proceeds,
// which makes tracing features observably consistent with execution order.
type RunHooks interface {
	OnBeforeLLMCall(ctx context.Context, runID string, prompt Prompt, tools []ToolDescriptor)
	OnAfterLLMCall(ctx context.Context, runID string, response Message)
	OnToolCall(ctx context.Context, runID string, call ToolCall)
	OnToolCallResult(ctx context.Context, runID string, result ToolResult)
	OnToolValidationError(ctx context.Context, runID string, result ToolResult)
	OnToolCallFailure(ctx context.Context, runID string, result ToolResult)
}

// NoOpHooks is a RunHooks implementation that ignores every notification.
type NoOpHooks struct{}

// OnBeforeLLMCall implements RunHooks.
func (NoOpHooks) OnBeforeLLMCall(context.Context, string, Prompt, []ToolDescriptor) {}

// OnAfterLLMCall implements RunHooks.
func (NoOpHooks) OnAfterLLMCall(context.Context, string, Message) {}

// OnToolCall implements RunHooks.
func (NoOpHooks) OnToolCall(context.Context, string, ToolCall) {}

// OnToolCallResult implements RunHooks.
func (NoOpHooks) OnToolCallResult(context.Context, string, ToolResult) {}

// OnToolValidationError implements RunHooks.
func (NoOpHooks) OnToolValidationError(context.Context, string, ToolResult) {}

// OnToolCallFailure implements RunHooks.
func (NoOpHooks) OnToolCallFailure(context.Context, string, ToolResult) {}
