package engine

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/logging"
	"github.com/hupe1980/agentgraph/tool"
)

// ToolEnvironment executes tool calls against a registry and reports every
// outcome through the run hooks. Recoverable problems — argument validation
// and tool execution failures — come back as results so the model can react;
// an unregistered tool name or a panicking tool body is fatal for the run.
type ToolEnvironment struct {
	registry *tool.Registry
	hooks    core.RunHooks
	runID    string
	logger   logging.Logger
}

var _ core.Environment = (*ToolEnvironment)(nil)

// NewToolEnvironment creates the default environment for a run.
func NewToolEnvironment(registry *tool.Registry, hooks core.RunHooks, runID string, logger logging.Logger) *ToolEnvironment {
	if hooks == nil {
		hooks = core.NoOpHooks{}
	}
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &ToolEnvironment{
		registry: registry,
		hooks:    hooks,
		runID:    runID,
		logger:   logger,
	}
}

// ExecuteTool runs a single tool call.
func (e *ToolEnvironment) ExecuteTool(ctx context.Context, call core.ToolCall) (result core.ToolResult, err error) {
	e.hooks.OnToolCall(ctx, e.runID, call)

	t, err := e.registry.Resolve(call.Name)
	if err != nil {
		return core.ToolResult{}, err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %q panicked: %v", call.Name, r)
		}
	}()

	result = e.invoke(ctx, t, call)
	return result, nil
}

// ExecuteTools runs a batch of calls in parallel and returns the results in
// call order. A single fatal failure cancels the remaining calls and fails
// the whole batch.
func (e *ToolEnvironment) ExecuteTools(ctx context.Context, calls []core.ToolCall) ([]core.ToolResult, error) {
	results := make([]core.ToolResult, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		i, call := i, call
		g.Go(func() error {
			result, err := e.ExecuteTool(gctx, call)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ReportProblem surfaces an error that happened outside tool execution.
func (e *ToolEnvironment) ReportProblem(_ context.Context, err error) {
	e.logger.Error("environment problem", "run_id", e.runID, "error", err)
}

func (e *ToolEnvironment) invoke(ctx context.Context, t tool.Tool, call core.ToolCall) core.ToolResult {
	content, err := t.Execute(ctx, call.Arguments)

	result := core.ToolResult{
		CallID:    call.ID,
		ToolName:  call.Name,
		Arguments: call.Arguments,
	}

	var validationErr *tool.ValidationError
	switch {
	case errors.As(err, &validationErr):
		result.Kind = core.ToolResultValidationError
		result.Message = validationErr.Message
		e.hooks.OnToolValidationError(ctx, e.runID, result)
	case err != nil:
		result.Kind = core.ToolResultFailure
		result.Message = err.Error()
		e.hooks.OnToolCallFailure(ctx, e.runID, result)
	default:
		result.Kind = core.ToolResultSuccess
		result.Content = content
		e.hooks.OnToolCallResult(ctx, e.runID, result)
	}

	return result
}
