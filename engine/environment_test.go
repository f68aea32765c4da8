package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/internal/testutil"
	"github.com/hupe1980/agentgraph/tool"
)

// recordingHooks counts tool lifecycle notifications; safe for parallel
// batches.
type recordingHooks struct {
	core.NoOpHooks

	mu          sync.Mutex
	calls       []string
	results     []core.ToolResult
	validations []core.ToolResult
	failures    []core.ToolResult
}

func (h *recordingHooks) OnToolCall(_ context.Context, _ string, call core.ToolCall) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, call.Name)
}

func (h *recordingHooks) OnToolCallResult(_ context.Context, _ string, result core.ToolResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.results = append(h.results, result)
}

func (h *recordingHooks) OnToolValidationError(_ context.Context, _ string, result core.ToolResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.validations = append(h.validations, result)
}

func (h *recordingHooks) OnToolCallFailure(_ context.Context, _ string, result core.ToolResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures = append(h.failures, result)
}

func newEnvWithTools(t *testing.T, hooks core.RunHooks, tools ...tool.Tool) *ToolEnvironment {
	t.Helper()
	registry, err := tool.NewRegistry(tools...)
	require.NoError(t, err)
	return NewToolEnvironment(registry, hooks, "run-1", nil)
}

func staticTool(name string, fn func(ctx context.Context, args json.RawMessage) (any, error)) tool.Tool {
	return &testutil.StaticTool{ToolName: name, ToolDescription: name, Fn: fn}
}

func TestToolEnvironment_SuccessOutcome(t *testing.T) {
	hooks := &recordingHooks{}
	env := newEnvWithTools(t, hooks, staticTool("greet", func(_ context.Context, _ json.RawMessage) (any, error) {
		return "hello", nil
	}))

	result, err := env.ExecuteTool(context.Background(), core.ToolCall{ID: "c1", Name: "greet"})
	require.NoError(t, err)

	assert.Equal(t, core.ToolResultSuccess, result.Kind)
	assert.Equal(t, "hello", result.Content)
	assert.Equal(t, "c1", result.CallID)
	assert.Equal(t, []string{"greet"}, hooks.calls)
	assert.Len(t, hooks.results, 1)
}

func TestToolEnvironment_ValidationErrorIsRecoverable(t *testing.T) {
	hooks := &recordingHooks{}
	env := newEnvWithTools(t, hooks, staticTool("strict", func(_ context.Context, _ json.RawMessage) (any, error) {
		return nil, tool.NewValidationError("strict", "bad arguments")
	}))

	result, err := env.ExecuteTool(context.Background(), core.ToolCall{ID: "c1", Name: "strict"})
	require.NoError(t, err)

	assert.Equal(t, core.ToolResultValidationError, result.Kind)
	assert.Equal(t, "bad arguments", result.Message)
	assert.Len(t, hooks.validations, 1)
	assert.Empty(t, hooks.results)
}

func TestToolEnvironment_ExecutionFailureIsRecoverable(t *testing.T) {
	hooks := &recordingHooks{}
	env := newEnvWithTools(t, hooks, staticTool("flaky", func(_ context.Context, _ json.RawMessage) (any, error) {
		return nil, errors.New("backend unreachable")
	}))

	result, err := env.ExecuteTool(context.Background(), core.ToolCall{ID: "c1", Name: "flaky"})
	require.NoError(t, err)

	assert.Equal(t, core.ToolResultFailure, result.Kind)
	assert.Contains(t, result.Message, "backend unreachable")
	assert.Len(t, hooks.failures, 1)
}

func TestToolEnvironment_UnknownToolIsFatal(t *testing.T) {
	env := newEnvWithTools(t, &recordingHooks{})

	_, err := env.ExecuteTool(context.Background(), core.ToolCall{ID: "c1", Name: "ghost"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, tool.ErrToolNotFound))
}

func TestToolEnvironment_PanicIsFatal(t *testing.T) {
	env := newEnvWithTools(t, &recordingHooks{}, staticTool("bomb", func(_ context.Context, _ json.RawMessage) (any, error) {
		panic("boom")
	}))

	_, err := env.ExecuteTool(context.Background(), core.ToolCall{ID: "c1", Name: "bomb"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}

func TestToolEnvironment_BatchPreservesCallOrder(t *testing.T) {
	hooks := &recordingHooks{}
	env := newEnvWithTools(t, hooks, staticTool("echo", func(_ context.Context, args json.RawMessage) (any, error) {
		return string(args), nil
	}))

	calls := make([]core.ToolCall, 5)
	for i := range calls {
		calls[i] = core.ToolCall{
			ID:        fmt.Sprintf("c%d", i),
			Name:      "echo",
			Arguments: []byte(fmt.Sprintf(`{"n":%d}`, i)),
		}
	}

	results, err := env.ExecuteTools(context.Background(), calls)
	require.NoError(t, err)
	require.Len(t, results, 5)

	for i, result := range results {
		assert.Equal(t, fmt.Sprintf("c%d", i), result.CallID)
		assert.Equal(t, fmt.Sprintf(`{"n":%d}`, i), result.Content)
	}
}

func TestToolEnvironment_BatchMixesRecoverableOutcomes(t *testing.T) {
	hooks := &recordingHooks{}
	env := newEnvWithTools(t, hooks,
		staticTool("good", func(_ context.Context, _ json.RawMessage) (any, error) {
			return "ok", nil
		}),
		staticTool("bad", func(_ context.Context, _ json.RawMessage) (any, error) {
			return nil, errors.New("nope")
		}),
	)

	results, err := env.ExecuteTools(context.Background(), []core.ToolCall{
		{ID: "c1", Name: "good"},
		{ID: "c2", Name: "bad"},
	})
	require.NoError(t, err)

	assert.Equal(t, core.ToolResultSuccess, results[0].Kind)
	assert.Equal(t, core.ToolResultFailure, results[1].Kind)
}

func TestToolEnvironment_BatchPanicFailsWholeBatch(t *testing.T) {
	env := newEnvWithTools(t, &recordingHooks{},
		staticTool("good", func(_ context.Context, _ json.RawMessage) (any, error) {
			return "ok", nil
		}),
		staticTool("bomb", func(_ context.Context, _ json.RawMessage) (any, error) {
			panic("boom")
		}),
	)

	results, err := env.ExecuteTools(context.Background(), []core.ToolCall{
		{ID: "c1", Name: "good"},
		{ID: "c2", Name: "bomb"},
	})
	require.Error(t, err)
	assert.Nil(t, results)
	assert.Contains(t, err.Error(), "panicked")
}
