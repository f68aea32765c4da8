// Package eventhandler installs plain callbacks on agent lifecycle hooks —
// the lightweight alternative to tracing when an application just wants to
// observe run boundaries and tool activity without a processor pipeline.
package eventhandler

import (
	"context"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/feature"
)

// Key identifies the event handler feature inside a pipeline.
var Key = feature.NewKey[Config]("eventhandler")

// Config holds the callbacks to install. Nil callbacks are skipped.
type Config struct {
	OnAgentStarting  func(runID, strategy string)
	OnAgentFinished  func(runID string, result any)
	OnAgentRunError  func(runID string, err error)
	OnNodeStart      func(node string, input any)
	OnNodeEnd        func(node string, input, output any)
	OnToolCall       func(call core.ToolCall)
	OnToolCallResult func(result core.ToolResult)
}

type eventHandlerFeature struct{}

// Feature is the installable event handler feature.
var Feature feature.Feature[Config] = eventHandlerFeature{}

func (eventHandlerFeature) Key() feature.Key[Config] { return Key }

func (eventHandlerFeature) NewConfig() *Config { return &Config{} }

func (eventHandlerFeature) Install(cfg *Config, p *feature.Pipeline) {
	if cfg.OnAgentStarting != nil {
		p.InterceptBeforeAgentStarted(func(_ context.Context, runID, strategy string) {
			cfg.OnAgentStarting(runID, strategy)
		})
	}
	if cfg.OnAgentFinished != nil {
		p.InterceptAgentFinished(func(_ context.Context, runID string, result any) {
			cfg.OnAgentFinished(runID, result)
		})
	}
	if cfg.OnAgentRunError != nil {
		p.InterceptAgentRunError(func(_ context.Context, runID string, err error) {
			cfg.OnAgentRunError(runID, err)
		})
	}
	if cfg.OnNodeStart != nil {
		p.InterceptBeforeNode(func(_ context.Context, _ *core.AgentContext, node string, input any) {
			cfg.OnNodeStart(node, input)
		})
	}
	if cfg.OnNodeEnd != nil {
		p.InterceptAfterNode(func(_ context.Context, _ *core.AgentContext, node string, input, output any) {
			cfg.OnNodeEnd(node, input, output)
		})
	}
	if cfg.OnToolCall != nil {
		p.InterceptToolCall(func(_ context.Context, _ string, call core.ToolCall) {
			cfg.OnToolCall(call)
		})
	}
	if cfg.OnToolCallResult != nil {
		p.InterceptToolCallResult(func(_ context.Context, _ string, result core.ToolResult) {
			cfg.OnToolCallResult(result)
		})
	}
}
