// Package agentgraph provides a high-level façade over the strategy graph
// engine, the tool registry and the feature pipeline, enabling rapid
// construction of single-agent reasoning loops. Most applications interact
// with this package by:
//  1. Building a strategy graph (strategy.SingleRun or a custom Builder)
//  2. Creating an Agent via NewAgent() with a prompt executor and tools
//  3. Installing features (tracing, event handlers, mock environments)
//  4. Calling Run() with the user input
//
// The façade delegates graph execution to engine.Engine while keeping setup
// ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a real model executor and
// a structured logger.
package agentgraph

import (
	"context"
	"errors"
	"sync"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/engine"
	"github.com/hupe1980/agentgraph/feature"
	"github.com/hupe1980/agentgraph/logging"
	"github.com/hupe1980/agentgraph/strategy"
	"github.com/hupe1980/agentgraph/tool"
)

// ErrAgentAlreadyRunning is returned by Run while another run on the same
// agent is still in flight. An agent executes at most one run at a time.
var ErrAgentAlreadyRunning = errors.New("agent already running")

// Config captures the per-agent settings that shape every run.
type Config struct {
	// SystemPrompt seeds the session prompt of every run.
	SystemPrompt string

	// Model is the model identifier handed to the prompt executor.
	Model string

	// MaxAgentIterations caps node traversals per run. Zero or negative
	// disables the ceiling.
	MaxAgentIterations int
}

// DefaultConfig is the configuration used when none is supplied.
var DefaultConfig = Config{
	MaxAgentIterations: 50,
}

// Options configures an Agent instance.
type Options struct {
	Config Config

	// Tools registered with the agent. The active strategy may further
	// restrict which of them the model sees.
	Tools []tool.Tool

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	featureFns []func(p *feature.Pipeline)
}

// WithLogger sets the logger used by the agent, engine and environment.
func WithLogger(logger logging.Logger) func(o *Options) {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithTools registers tools with the agent.
func WithTools(tools ...tool.Tool) func(o *Options) {
	return func(o *Options) {
		o.Tools = append(o.Tools, tools...)
	}
}

// WithFeature installs a feature into the agent's pipeline. The callback
// typically calls feature.Install with a Feature implementation.
func WithFeature(fn func(p *feature.Pipeline)) func(o *Options) {
	return func(o *Options) {
		o.featureFns = append(o.featureFns, fn)
	}
}

// Agent binds a prompt executor, a tool registry and a strategy graph into a
// runnable unit. Create one with NewAgent and release its features with
// Close when done.
type Agent struct {
	executor core.PromptExecutor
	graph    *strategy.Graph
	registry *tool.Registry
	pipeline *feature.Pipeline
	engine   *engine.Engine
	config   Config
	logger   logging.Logger

	mu      sync.Mutex
	running bool
	closed  bool
}

// NewAgent creates an agent that executes the given strategy graph. The
// executor produces model responses; tools and features are supplied via
// options.
func NewAgent(executor core.PromptExecutor, graph *strategy.Graph, optFns ...func(o *Options)) (*Agent, error) {
	opts := Options{
		Config: DefaultConfig,
		Logger: logging.NewNoOpLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	registry, err := tool.NewRegistry(opts.Tools...)
	if err != nil {
		return nil, err
	}

	// Fail fast on a tool policy that names unregistered tools.
	if names := graph.ToolNames(); names != nil {
		if _, err := registry.Subset(names...); err != nil {
			return nil, err
		}
	}

	pipeline := feature.NewPipeline()
	for _, fn := range opts.featureFns {
		fn(pipeline)
	}

	eng := engine.New(pipeline, func(o *engine.Options) {
		o.MaxIterations = opts.Config.MaxAgentIterations
		o.Logger = opts.Logger
	})

	return &Agent{
		executor: executor,
		graph:    graph,
		registry: registry,
		pipeline: pipeline,
		engine:   eng,
		config:   opts.Config,
		logger:   opts.Logger,
	}, nil
}

// Pipeline exposes the agent's feature pipeline, mainly so callers can read
// feature configs via feature.ConfigFor.
func (a *Agent) Pipeline() *feature.Pipeline { return a.pipeline }

// Run executes the strategy graph once with the given input and returns the
// finish node's output. Each run gets a fresh session, state and storage; an
// agent executes at most one run at a time and a second concurrent Run
// returns ErrAgentAlreadyRunning.
func (a *Agent) Run(ctx context.Context, input any) (any, error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil, errors.New("agent is closed")
	}
	if a.running {
		a.mu.Unlock()
		return nil, ErrAgentAlreadyRunning
	}
	a.running = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	runID := core.NewID()

	registry := a.registry
	if names := a.graph.ToolNames(); names != nil {
		sub, err := a.registry.Subset(names...)
		if err != nil {
			return nil, err
		}
		registry = sub
	}

	var env core.Environment = engine.NewToolEnvironment(registry, a.pipeline, runID, a.logger)
	env = a.pipeline.TransformEnvironment(env)

	session := core.NewSessionContext(a.config.Model, a.config.SystemPrompt, registry.Descriptors(), a.executor)
	agentCtx := core.NewAgentContext(env, a.pipeline, session, runID, a.graph.Name(), a.logger)

	a.pipeline.OnBeforeAgentStarted(ctx, runID, a.graph.Name())

	result, err := a.engine.Run(ctx, agentCtx, a.graph, input)
	if err != nil {
		a.pipeline.OnAgentRunError(ctx, runID, err)
		return nil, err
	}

	a.pipeline.OnAgentFinished(ctx, runID, result)
	return result, nil
}

// Close fires the before-close hook and releases every resource features
// registered with the pipeline. Close is idempotent.
func (a *Agent) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	a.pipeline.OnAgentBeforeClose(context.Background())
	return a.pipeline.Close()
}
