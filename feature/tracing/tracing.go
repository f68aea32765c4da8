// Package tracing observes every hook of the feature pipeline and forwards a
// uniform message stream to pluggable processors — a structured logger, a
// JSON-lines writer, or anything else implementing feature.MessageProcessor.
// Messages are emitted synchronously and in hook order, so a trace reads as
// the exact chronology of a run.
package tracing

import (
	"context"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/feature"
)

// Key identifies the tracing feature inside a pipeline.
var Key = feature.NewKey[Config]("tracing")

// Config configures the tracing feature.
type Config struct {
	// Filter decides which messages reach the processors. A nil filter
	// passes everything through.
	Filter func(m feature.Message) bool

	// Processors receive the message stream. Add at least one, otherwise
	// the feature traces into the void.
	Processors []feature.MessageProcessor

	// OnError receives processor failures (initialize and per-message).
	// Defaults to dropping them; tracing never fails a run.
	OnError func(err error)
}

// AddProcessor appends a message processor.
func (c *Config) AddProcessor(p feature.MessageProcessor) {
	c.Processors = append(c.Processors, p)
}

type tracingFeature struct{}

// Feature is the installable tracing feature.
var Feature feature.Feature[Config] = tracingFeature{}

func (tracingFeature) Key() feature.Key[Config] { return Key }

func (tracingFeature) NewConfig() *Config { return &Config{} }

func (tracingFeature) Install(cfg *Config, p *feature.Pipeline) {
	onError := cfg.OnError
	if onError == nil {
		onError = func(error) {}
	}

	for _, proc := range cfg.Processors {
		if err := proc.Initialize(); err != nil {
			onError(err)
		}
		p.RegisterCloser(proc.Close)
	}

	emit := func(m feature.Message) {
		if cfg.Filter != nil && !cfg.Filter(m) {
			return
		}
		for _, proc := range cfg.Processors {
			if !proc.IsOpen() {
				continue
			}
			if err := proc.ProcessMessage(m); err != nil {
				onError(err)
			}
		}
	}

	p.InterceptBeforeAgentStarted(func(ctx context.Context, runID, strategy string) {
		m := feature.NewMessage(feature.MessageAgentStarting, runID)
		m.Strategy = strategy
		emit(m)
	})
	p.InterceptAgentFinished(func(ctx context.Context, runID string, result any) {
		m := feature.NewMessage(feature.MessageAgentFinished, runID)
		m.Result = result
		emit(m)
	})
	p.InterceptAgentRunError(func(ctx context.Context, runID string, err error) {
		m := feature.NewMessage(feature.MessageAgentRunError, runID)
		m.Error = err.Error()
		emit(m)
	})
	p.InterceptAgentBeforeClose(func(ctx context.Context) {
		emit(feature.NewMessage(feature.MessageAgentBeforeClose, ""))
	})
	p.InterceptStrategyStarted(func(ctx context.Context, agentCtx *core.AgentContext) {
		m := feature.NewMessage(feature.MessageStrategyStarting, agentCtx.RunID())
		m.Strategy = agentCtx.StrategyName()
		emit(m)
	})
	p.InterceptStrategyFinished(func(ctx context.Context, agentCtx *core.AgentContext, result any) {
		m := feature.NewMessage(feature.MessageStrategyFinished, agentCtx.RunID())
		m.Strategy = agentCtx.StrategyName()
		m.Result = result
		emit(m)
	})
	p.InterceptBeforeNode(func(ctx context.Context, agentCtx *core.AgentContext, node string, input any) {
		m := feature.NewMessage(feature.MessageNodeExecutionStart, agentCtx.RunID())
		m.Node = node
		m.Input = input
		emit(m)
	})
	p.InterceptAfterNode(func(ctx context.Context, agentCtx *core.AgentContext, node string, input, output any) {
		m := feature.NewMessage(feature.MessageNodeExecutionEnd, agentCtx.RunID())
		m.Node = node
		m.Input = input
		m.Output = output
		emit(m)
	})
	p.InterceptNodeExecutionError(func(ctx context.Context, agentCtx *core.AgentContext, node string, err error) {
		m := feature.NewMessage(feature.MessageNodeExecutionError, agentCtx.RunID())
		m.Node = node
		m.Error = err.Error()
		emit(m)
	})
	p.InterceptBeforeLLMCall(func(ctx context.Context, runID string, prompt core.Prompt, tools []core.ToolDescriptor) {
		m := feature.NewMessage(feature.MessageBeforeLLMCall, runID)
		m.Input = prompt
		emit(m)
	})
	p.InterceptAfterLLMCall(func(ctx context.Context, runID string, response core.Message) {
		m := feature.NewMessage(feature.MessageAfterLLMCall, runID)
		m.Output = response
		emit(m)
	})
	p.InterceptToolCall(func(ctx context.Context, runID string, call core.ToolCall) {
		emit(feature.NewToolMessage(feature.MessageToolCall, runID, call))
	})
	p.InterceptToolCallResult(func(ctx context.Context, runID string, result core.ToolResult) {
		emit(toolResultMessage(feature.MessageToolCallResult, runID, result))
	})
	p.InterceptToolValidationError(func(ctx context.Context, runID string, result core.ToolResult) {
		emit(toolResultMessage(feature.MessageToolValidationError, runID, result))
	})
	p.InterceptToolCallFailure(func(ctx context.Context, runID string, result core.ToolResult) {
		emit(toolResultMessage(feature.MessageToolCallFailure, runID, result))
	})
}

func toolResultMessage(kind feature.MessageKind, runID string, result core.ToolResult) feature.Message {
	m := feature.NewMessage(kind, runID)
	m.Tool = result.ToolName
	m.CallID = result.CallID
	m.Arguments = result.Arguments
	m.Result = result.Content
	m.Error = result.Message
	return m
}
