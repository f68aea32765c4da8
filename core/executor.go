package core

import "context"

// PromptExecutor is the minimal contract a language model backend must satisfy
// to drive a strategy. Implementations translate the prompt plus tool
// descriptors into a provider request and the provider response back into a
// single assistant Message (text and/or tool calls).
//
// Execute is a suspension point: implementations must respect ctx
// cancellation.
type PromptExecutor interface {
	Execute(ctx context.Context, prompt Prompt, tools []ToolDescriptor) (Message, error)
}

// PromptExecutorFunc adapts a function to the PromptExecutor interface.
type PromptExecutorFunc func(ctx context.Context, prompt Prompt, tools []ToolDescriptor) (Message, error)

// Execute implements PromptExecutor.
func (f PromptExecutorFunc) Execute(ctx context.Context, prompt Prompt, tools []ToolDescriptor) (Message, error) {
	return f(ctx, prompt, tools)
}
