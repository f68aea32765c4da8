package strategy

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentgraph/core"
)

// NodeLLMRequest appends the input as a user message (when non-empty) and
// requests a model response. The before/after LLM hooks fire around the call
// and the response is appended to the session prompt.
func NodeLLMRequest(name string) Node {
	return NewNode(name, func(ctx context.Context, agentCtx *core.AgentContext, input string) (core.Message, error) {
		sess := agentCtx.Session()
		if input != "" {
			sess.AppendMessage(core.NewUserMessage(input))
		}
		return requestLLM(ctx, agentCtx, sess)
	})
}

// NodeExecuteTool executes a single tool call through the run environment.
// Validation and execution failures come back as the result kind; the error
// return is reserved for conditions that are fatal for the run, such as an
// unregistered tool name.
func NodeExecuteTool(name string) Node {
	return NewNode(name, func(ctx context.Context, agentCtx *core.AgentContext, call core.ToolCall) (core.ToolResult, error) {
		return agentCtx.Environment().ExecuteTool(ctx, call)
	})
}

// NodeExecuteMultipleTools executes a batch of tool calls in parallel.
// Results come back in call order.
func NodeExecuteMultipleTools(name string) Node {
	return NewNode(name, func(ctx context.Context, agentCtx *core.AgentContext, calls []core.ToolCall) ([]core.ToolResult, error) {
		return agentCtx.Environment().ExecuteTools(ctx, calls)
	})
}

// NodeSendToolResult appends a tool result to the session prompt and
// requests the next model response.
func NodeSendToolResult(name string) Node {
	return NewNode(name, func(ctx context.Context, agentCtx *core.AgentContext, result core.ToolResult) (core.Message, error) {
		sess := agentCtx.Session()
		sess.AppendMessage(core.NewToolResultMessage(result.CallID, result.ResponseText()))
		return requestLLM(ctx, agentCtx, sess)
	})
}

// NodeSendMultipleToolResults appends a batch of tool results and requests
// the next model response.
func NodeSendMultipleToolResults(name string) Node {
	return NewNode(name, func(ctx context.Context, agentCtx *core.AgentContext, results []core.ToolResult) (core.Message, error) {
		sess := agentCtx.Session()
		for _, result := range results {
			sess.AppendMessage(core.NewToolResultMessage(result.CallID, result.ResponseText()))
		}
		return requestLLM(ctx, agentCtx, sess)
	})
}

func requestLLM(ctx context.Context, agentCtx *core.AgentContext, sess *core.SessionContext) (core.Message, error) {
	agentCtx.Hooks().OnBeforeLLMCall(ctx, agentCtx.RunID(), sess.Prompt, sess.Tools)

	msg, err := sess.Executor.Execute(ctx, sess.Prompt, sess.Tools)
	if err != nil {
		return core.Message{}, fmt.Errorf("llm request: %w", err)
	}

	agentCtx.Hooks().OnAfterLLMCall(ctx, agentCtx.RunID(), msg)
	sess.AppendMessage(msg)

	return msg, nil
}
