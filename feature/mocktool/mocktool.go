// Package mocktool swaps the tool-execution environment for a mocked one in
// tests: mocked tools answer with canned results without touching the
// registry, unmocked tools fall through to the real environment. Install it
// like any other feature; the swap happens through the pipeline's
// environment transformer, so production wiring stays untouched.
package mocktool

import (
	"context"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/feature"
)

// Key identifies the mock tool feature inside a pipeline.
var Key = feature.NewKey[Config]("mocktool")

// Responder produces the mocked result for a tool call. The returned
// result's identifying fields (call id, tool name, arguments) are filled in
// by the environment.
type Responder func(call core.ToolCall) core.ToolResult

// Config holds the mocked tools.
type Config struct {
	responders map[string]Responder
}

// Mock registers a responder for a tool name.
func (c *Config) Mock(tool string, fn Responder) {
	if c.responders == nil {
		c.responders = make(map[string]Responder)
	}
	c.responders[tool] = fn
}

// MockResult mocks a tool with a fixed successful result.
func (c *Config) MockResult(tool string, content any) {
	c.Mock(tool, func(core.ToolCall) core.ToolResult {
		return core.ToolResult{Kind: core.ToolResultSuccess, Content: content}
	})
}

// MockValidationError mocks a tool that rejects its arguments.
func (c *Config) MockValidationError(tool, message string) {
	c.Mock(tool, func(core.ToolCall) core.ToolResult {
		return core.ToolResult{Kind: core.ToolResultValidationError, Message: message}
	})
}

// MockFailure mocks a tool whose body fails.
func (c *Config) MockFailure(tool, message string) {
	c.Mock(tool, func(core.ToolCall) core.ToolResult {
		return core.ToolResult{Kind: core.ToolResultFailure, Message: message}
	})
}

type mockToolFeature struct{}

// Feature is the installable mock tool feature.
var Feature feature.Feature[Config] = mockToolFeature{}

func (mockToolFeature) Key() feature.Key[Config] { return Key }

func (mockToolFeature) NewConfig() *Config { return &Config{} }

func (mockToolFeature) Install(cfg *Config, p *feature.Pipeline) {
	p.InterceptEnvironment(func(env core.Environment) core.Environment {
		return &mockEnvironment{inner: env, responders: cfg.responders}
	})
}

type mockEnvironment struct {
	inner      core.Environment
	responders map[string]Responder
}

var _ core.Environment = (*mockEnvironment)(nil)

func (e *mockEnvironment) ExecuteTool(ctx context.Context, call core.ToolCall) (core.ToolResult, error) {
	fn, ok := e.responders[call.Name]
	if !ok {
		return e.inner.ExecuteTool(ctx, call)
	}
	result := fn(call)
	result.CallID = call.ID
	result.ToolName = call.Name
	result.Arguments = call.Arguments
	return result, nil
}

func (e *mockEnvironment) ExecuteTools(ctx context.Context, calls []core.ToolCall) ([]core.ToolResult, error) {
	results := make([]core.ToolResult, len(calls))
	for i, call := range calls {
		result, err := e.ExecuteTool(ctx, call)
		if err != nil {
			return nil, err
		}
		results[i] = result
	}
	return results, nil
}

func (e *mockEnvironment) ReportProblem(ctx context.Context, err error) {
	e.inner.ReportProblem(ctx, err)
}
