package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/feature"
	"github.com/hupe1980/agentgraph/logging"
	"github.com/hupe1980/agentgraph/strategy"
)

var (
	// ErrNoMatchingEdge is returned when a node produced an output that no
	// outgoing edge accepts, so the walk cannot continue.
	ErrNoMatchingEdge = errors.New("no matching edge")

	// ErrIterationLimitExceeded is returned when a run traverses more nodes
	// than the configured ceiling allows. It usually means the strategy is
	// looping without converging.
	ErrIterationLimitExceeded = errors.New("max iterations exceeded")
)

// Options configures an Engine.
type Options struct {
	// MaxIterations caps the number of node traversals per run. Zero or
	// negative disables the ceiling.
	MaxIterations int

	Logger logging.Logger
}

// Engine executes strategy graphs.
type Engine struct {
	pipeline      *feature.Pipeline
	maxIterations int
	logger        logging.Logger
}

// New creates an engine backed by the given feature pipeline.
func New(pipeline *feature.Pipeline, optFns ...func(o *Options)) *Engine {
	opts := Options{
		MaxIterations: 50,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Engine{
		pipeline:      pipeline,
		maxIterations: opts.MaxIterations,
		logger:        logger,
	}
}

// Run walks the graph from its start node until the finish node completes,
// threading each node's output through the first matching edge. The step
// counter in the agent context advances once per node traversal; crossing
// the iteration ceiling aborts the run.
func (e *Engine) Run(ctx context.Context, agentCtx *core.AgentContext, graph *strategy.Graph, input any) (any, error) {
	e.pipeline.OnStrategyStarted(ctx, agentCtx)

	current, ok := graph.Node(graph.Start())
	if !ok {
		return nil, fmt.Errorf("strategy %q: missing start node", graph.Name())
	}

	value := input
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		step := agentCtx.State().IncrementSteps()
		if e.maxIterations > 0 && step > e.maxIterations {
			return nil, fmt.Errorf("%w: limit %d reached at node %q", ErrIterationLimitExceeded, e.maxIterations, current.Name())
		}

		e.logger.Debug("executing node", "strategy", graph.Name(), "node", current.Name(), "step", step)
		e.pipeline.OnBeforeNode(ctx, agentCtx, current.Name(), value)

		output, err := current.Run(ctx, agentCtx, value)
		if err != nil {
			e.pipeline.OnNodeExecutionError(ctx, agentCtx, current.Name(), err)
			return nil, fmt.Errorf("node %q: %w", current.Name(), err)
		}

		e.pipeline.OnAfterNode(ctx, agentCtx, current.Name(), value, output)

		if current.Name() == graph.Finish() {
			e.pipeline.OnStrategyFinished(ctx, agentCtx, output)
			return output, nil
		}

		edge, found := firstMatch(graph.Edges(current.Name()), output)
		if !found {
			return nil, fmt.Errorf("%w: node %q produced %T", ErrNoMatchingEdge, current.Name(), output)
		}

		value, err = edge.Apply(output)
		if err != nil {
			e.pipeline.OnNodeExecutionError(ctx, agentCtx, current.Name(), err)
			return nil, fmt.Errorf("edge %q -> %q: %w", edge.From, edge.To, err)
		}

		next, ok := graph.Node(edge.To)
		if !ok {
			return nil, fmt.Errorf("strategy %q: edge targets unknown node %q", graph.Name(), edge.To)
		}
		current = next
	}
}

func firstMatch(edges []strategy.Edge, output any) (strategy.Edge, bool) {
	for _, e := range edges {
		if e.Matches(output) {
			return e, true
		}
	}
	return strategy.Edge{}, false
}
