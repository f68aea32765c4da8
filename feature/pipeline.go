package feature

import (
	"context"
	"errors"
	"sync"

	"github.com/hupe1980/agentgraph/core"
)

// Handler signatures for the pipeline hooks. Node hooks receive the run's
// AgentContext; tool and model hooks receive the run id plus the event
// payload, since they may fire from parallel tool-batch goroutines.
type (
	// NodeStartHandler fires before a node executes.
	NodeStartHandler func(ctx context.Context, agentCtx *core.AgentContext, node string, input any)
	// NodeEndHandler fires after a node executed successfully.
	NodeEndHandler func(ctx context.Context, agentCtx *core.AgentContext, node string, input, output any)
	// NodeErrorHandler fires when a node execution fails.
	NodeErrorHandler func(ctx context.Context, agentCtx *core.AgentContext, node string, err error)
	// AgentStartHandler fires before an agent run begins.
	AgentStartHandler func(ctx context.Context, runID, strategy string)
	// AgentFinishedHandler fires after an agent run completes.
	AgentFinishedHandler func(ctx context.Context, runID string, result any)
	// AgentRunErrorHandler fires when an agent run fails fatally.
	AgentRunErrorHandler func(ctx context.Context, runID string, err error)
	// AgentCloseHandler fires before the agent shuts down.
	AgentCloseHandler func(ctx context.Context)
	// StrategyHandler fires when graph execution starts.
	StrategyHandler func(ctx context.Context, agentCtx *core.AgentContext)
	// StrategyFinishedHandler fires when graph execution completes.
	StrategyFinishedHandler func(ctx context.Context, agentCtx *core.AgentContext, result any)
	// LLMCallHandler fires before a model call.
	LLMCallHandler func(ctx context.Context, runID string, prompt core.Prompt, tools []core.ToolDescriptor)
	// LLMResponseHandler fires after a model call.
	LLMResponseHandler func(ctx context.Context, runID string, response core.Message)
	// ToolCallHandler fires when a tool invocation starts.
	ToolCallHandler func(ctx context.Context, runID string, call core.ToolCall)
	// ToolResultHandler fires for a tool outcome (result, validation error or
	// failure depending on the hook it is registered on).
	ToolResultHandler func(ctx context.Context, runID string, result core.ToolResult)
	// EnvironmentTransformer wraps or replaces the effective tool-execution
	// environment before a run starts (used by test mocking).
	EnvironmentTransformer func(env core.Environment) core.Environment
)

// Pipeline is the fan-out dispatcher notifying all installed features of
// lifecycle and execution events. Handlers fire in installation order; each
// hook invocation completes before the engine proceeds.
//
// Registration is expected to happen at install time, before runs start.
// Firing is safe from concurrent goroutines (parallel tool batches).
type Pipeline struct {
	mu      sync.RWMutex
	configs map[string]any
	closers []func() error

	beforeNode     []NodeStartHandler
	afterNode      []NodeEndHandler
	nodeError      []NodeErrorHandler
	agentStarted   []AgentStartHandler
	agentFinished  []AgentFinishedHandler
	agentRunError  []AgentRunErrorHandler
	agentClose     []AgentCloseHandler
	strategyStart  []StrategyHandler
	strategyFinish []StrategyFinishedHandler
	beforeLLM      []LLMCallHandler
	afterLLM       []LLMResponseHandler
	toolCall       []ToolCallHandler
	toolResult     []ToolResultHandler
	toolValidation []ToolResultHandler
	toolFailure    []ToolResultHandler
	transformers   []EnvironmentTransformer
}

var _ core.RunHooks = (*Pipeline)(nil)

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{configs: map[string]any{}}
}

func (p *Pipeline) storeConfig(name string, cfg any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.configs[name] = cfg
}

func (p *Pipeline) loadConfig(name string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.configs[name]
	return v, ok
}

// RegisterCloser adds a teardown function invoked when the owning agent
// closes (after onAgentBeforeClose handlers have fired).
func (p *Pipeline) RegisterCloser(fn func() error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closers = append(p.closers, fn)
}

// Close runs all registered closers, joining their errors.
func (p *Pipeline) Close() error {
	p.mu.RLock()
	closers := make([]func() error, len(p.closers))
	copy(closers, p.closers)
	p.mu.RUnlock()

	var errs []error
	for _, fn := range closers {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Interception registration. Each method appends the handler in installation
// order.

// InterceptBeforeNode registers a node-start handler.
func (p *Pipeline) InterceptBeforeNode(h NodeStartHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.beforeNode = append(p.beforeNode, h)
}

// InterceptAfterNode registers a node-end handler.
func (p *Pipeline) InterceptAfterNode(h NodeEndHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.afterNode = append(p.afterNode, h)
}

// InterceptNodeExecutionError registers a node-error handler.
func (p *Pipeline) InterceptNodeExecutionError(h NodeErrorHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nodeError = append(p.nodeError, h)
}

// InterceptBeforeAgentStarted registers an agent-start handler.
func (p *Pipeline) InterceptBeforeAgentStarted(h AgentStartHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.agentStarted = append(p.agentStarted, h)
}

// InterceptAgentFinished registers an agent-finished handler.
func (p *Pipeline) InterceptAgentFinished(h AgentFinishedHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.agentFinished = append(p.agentFinished, h)
}

// InterceptAgentRunError registers an agent-run-error handler.
func (p *Pipeline) InterceptAgentRunError(h AgentRunErrorHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.agentRunError = append(p.agentRunError, h)
}

// InterceptAgentBeforeClose registers an agent-close handler.
func (p *Pipeline) InterceptAgentBeforeClose(h AgentCloseHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.agentClose = append(p.agentClose, h)
}

// InterceptStrategyStarted registers a strategy-start handler.
func (p *Pipeline) InterceptStrategyStarted(h StrategyHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.strategyStart = append(p.strategyStart, h)
}

// InterceptStrategyFinished registers a strategy-finished handler.
func (p *Pipeline) InterceptStrategyFinished(h StrategyFinishedHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.strategyFinish = append(p.strategyFinish, h)
}

// InterceptBeforeLLMCall registers a before-model-call handler.
func (p *Pipeline) InterceptBeforeLLMCall(h LLMCallHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.beforeLLM = append(p.beforeLLM, h)
}

// InterceptAfterLLMCall registers an after-model-call handler.
func (p *Pipeline) InterceptAfterLLMCall(h LLMResponseHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.afterLLM = append(p.afterLLM, h)
}

// InterceptToolCall registers a tool-call handler.
func (p *Pipeline) InterceptToolCall(h ToolCallHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toolCall = append(p.toolCall, h)
}

// InterceptToolCallResult registers a tool-success handler.
func (p *Pipeline) InterceptToolCallResult(h ToolResultHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toolResult = append(p.toolResult, h)
}

// InterceptToolValidationError registers a tool-validation-error handler.
func (p *Pipeline) InterceptToolValidationError(h ToolResultHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toolValidation = append(p.toolValidation, h)
}

// InterceptToolCallFailure registers a tool-failure handler.
func (p *Pipeline) InterceptToolCallFailure(h ToolResultHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toolFailure = append(p.toolFailure, h)
}

// InterceptEnvironment registers an environment transformer.
func (p *Pipeline) InterceptEnvironment(t EnvironmentTransformer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transformers = append(p.transformers, t)
}

// TransformEnvironment folds all installed transformers over env in
// installation order and returns the effective environment for a run.
func (p *Pipeline) TransformEnvironment(env core.Environment) core.Environment {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, t := range p.transformers {
		env = t(env)
	}
	return env
}

// Event dispatch. Each method fans out to every registered handler in
// installation order and returns once all handlers completed.

// OnBeforeNode notifies all features that a node is about to execute.
func (p *Pipeline) OnBeforeNode(ctx context.Context, agentCtx *core.AgentContext, node string, input any) {
	p.mu.RLock()
	handlers := p.beforeNode
	p.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, agentCtx, node, input)
	}
}

// OnAfterNode notifies all features that a node executed successfully.
func (p *Pipeline) OnAfterNode(ctx context.Context, agentCtx *core.AgentContext, node string, input, output any) {
	p.mu.RLock()
	handlers := p.afterNode
	p.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, agentCtx, node, input, output)
	}
}

// OnNodeExecutionError notifies all features that a node execution failed.
func (p *Pipeline) OnNodeExecutionError(ctx context.Context, agentCtx *core.AgentContext, node string, err error) {
	p.mu.RLock()
	handlers := p.nodeError
	p.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, agentCtx, node, err)
	}
}

// OnBeforeAgentStarted notifies all features that a run is starting.
func (p *Pipeline) OnBeforeAgentStarted(ctx context.Context, runID, strategy string) {
	p.mu.RLock()
	handlers := p.agentStarted
	p.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, runID, strategy)
	}
}

// OnAgentFinished notifies all features that a run completed.
func (p *Pipeline) OnAgentFinished(ctx context.Context, runID string, result any) {
	p.mu.RLock()
	handlers := p.agentFinished
	p.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, runID, result)
	}
}

// OnAgentRunError notifies all features that a run failed fatally.
func (p *Pipeline) OnAgentRunError(ctx context.Context, runID string, err error) {
	p.mu.RLock()
	handlers := p.agentRunError
	p.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, runID, err)
	}
}

// OnAgentBeforeClose notifies all features that the agent is shutting down.
func (p *Pipeline) OnAgentBeforeClose(ctx context.Context) {
	p.mu.RLock()
	handlers := p.agentClose
	p.mu.RUnlock()
	for _, h := range handlers {
		h(ctx)
	}
}

// OnStrategyStarted notifies all features that graph execution began.
func (p *Pipeline) OnStrategyStarted(ctx context.Context, agentCtx *core.AgentContext) {
	p.mu.RLock()
	handlers := p.strategyStart
	p.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, agentCtx)
	}
}

// OnStrategyFinished notifies all features that graph execution completed.
func (p *Pipeline) OnStrategyFinished(ctx context.Context, agentCtx *core.AgentContext, result any) {
	p.mu.RLock()
	handlers := p.strategyFinish
	p.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, agentCtx, result)
	}
}

// OnBeforeLLMCall implements core.RunHooks.
func (p *Pipeline) OnBeforeLLMCall(ctx context.Context, runID string, prompt core.Prompt, tools []core.ToolDescriptor) {
	p.mu.RLock()
	handlers := p.beforeLLM
	p.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, runID, prompt, tools)
	}
}

// OnAfterLLMCall implements core.RunHooks.
func (p *Pipeline) OnAfterLLMCall(ctx context.Context, runID string, response core.Message) {
	p.mu.RLock()
	handlers := p.afterLLM
	p.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, runID, response)
	}
}

// OnToolCall implements core.RunHooks.
func (p *Pipeline) OnToolCall(ctx context.Context, runID string, call core.ToolCall) {
	p.mu.RLock()
	handlers := p.toolCall
	p.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, runID, call)
	}
}

// OnToolCallResult implements core.RunHooks.
func (p *Pipeline) OnToolCallResult(ctx context.Context, runID string, result core.ToolResult) {
	p.mu.RLock()
	handlers := p.toolResult
	p.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, runID, result)
	}
}

// OnToolValidationError implements core.RunHooks.
func (p *Pipeline) OnToolValidationError(ctx context.Context, runID string, result core.ToolResult) {
	p.mu.RLock()
	handlers := p.toolValidation
	p.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, runID, result)
	}
}

// OnToolCallFailure implements core.RunHooks.
func (p *Pipeline) OnToolCallFailure(ctx context.Context, runID string, result core.ToolResult) {
	p.mu.RLock()
	handlers := p.toolFailure
	p.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, runID, result)
	}
}
