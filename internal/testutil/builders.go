package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/feature"
	"github.com/hupe1980/agentgraph/logging"
)

// AgentContextBuilder provides a fluent helper for constructing agent
// contexts in tests. Example:
//
//	agentCtx := NewAgentContextBuilder().RunID("run-1").Strategy("test").Build()
//
// Chain only the parts you need; sensible defaults are applied.
type AgentContextBuilder struct {
	runID        string
	strategyName string
	systemPrompt string
	env          core.Environment
	hooks        core.RunHooks
	executor     core.PromptExecutor
	tools        []core.ToolDescriptor
}

// NewAgentContextBuilder creates a builder with default run id "test-run".
func NewAgentContextBuilder() *AgentContextBuilder {
	return &AgentContextBuilder{runID: "test-run", strategyName: "test"}
}

// RunID sets the run identifier (chainable).
func (b *AgentContextBuilder) RunID(id string) *AgentContextBuilder { b.runID = id; return b }

// Strategy sets the strategy name (chainable).
func (b *AgentContextBuilder) Strategy(name string) *AgentContextBuilder {
	b.strategyName = name
	return b
}

// SystemPrompt seeds the session prompt (chainable).
func (b *AgentContextBuilder) SystemPrompt(p string) *AgentContextBuilder {
	b.systemPrompt = p
	return b
}

// Env sets the tool-execution environment (chainable).
func (b *AgentContextBuilder) Env(env core.Environment) *AgentContextBuilder { b.env = env; return b }

// Hooks sets the run hooks (chainable).
func (b *AgentContextBuilder) Hooks(h core.RunHooks) *AgentContextBuilder { b.hooks = h; return b }

// Executor sets the prompt executor (chainable).
func (b *AgentContextBuilder) Executor(e core.PromptExecutor) *AgentContextBuilder {
	b.executor = e
	return b
}

// Tools sets the tool descriptors visible to the session (chainable).
func (b *AgentContextBuilder) Tools(tools ...core.ToolDescriptor) *AgentContextBuilder {
	b.tools = append(b.tools, tools...)
	return b
}

// Build returns a *core.AgentContext with fresh state and storage.
func (b *AgentContextBuilder) Build() *core.AgentContext {
	session := core.NewSessionContext("test-model", b.systemPrompt, b.tools, b.executor)
	return core.NewAgentContext(b.env, b.hooks, session, b.runID, b.strategyName, logging.NewNoOpLogger())
}

// StaticTool is a minimal tool.Tool implementation with a fixed schema and a
// caller-supplied body. It skips argument validation on purpose so tests can
// exercise arbitrary raw payloads.
type StaticTool struct {
	ToolName        string
	ToolDescription string
	Fn              func(ctx context.Context, args json.RawMessage) (any, error)
}

// Name implements tool.Tool.
func (t *StaticTool) Name() string { return t.ToolName }

// Description implements tool.Tool.
func (t *StaticTool) Description() string { return t.ToolDescription }

// Schema implements tool.Tool.
func (t *StaticTool) Schema() map[string]any {
	return map[string]any{"type": "object"}
}

// Execute implements tool.Tool.
func (t *StaticTool) Execute(ctx context.Context, args json.RawMessage) (any, error) {
	return t.Fn(ctx, args)
}

// CollectingProcessor is a feature.MessageProcessor that records every
// message it receives, for assertions on trace streams.
type CollectingProcessor struct {
	mu       sync.Mutex
	open     bool
	messages []feature.Message
	closes   int
}

// NewCollectingProcessor creates an open collecting processor.
func NewCollectingProcessor() *CollectingProcessor {
	return &CollectingProcessor{open: true}
}

// Initialize implements feature.MessageProcessor.
func (p *CollectingProcessor) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = true
	return nil
}

// ProcessMessage implements feature.MessageProcessor.
func (p *CollectingProcessor) ProcessMessage(m feature.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, m)
	return nil
}

// Close implements feature.MessageProcessor.
func (p *CollectingProcessor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = false
	p.closes++
	return nil
}

// IsOpen implements feature.MessageProcessor.
func (p *CollectingProcessor) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

// Messages returns a copy of the recorded messages.
func (p *CollectingProcessor) Messages() []feature.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]feature.Message, len(p.messages))
	copy(out, p.messages)
	return out
}

// Kinds returns the recorded message kinds in order.
func (p *CollectingProcessor) Kinds() []feature.MessageKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]feature.MessageKind, len(p.messages))
	for i, m := range p.messages {
		kinds[i] = m.Kind
	}
	return kinds
}

// CloseCount reports how many times Close was called.
func (p *CollectingProcessor) CloseCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closes
}
