package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/feature"
	"github.com/hupe1980/agentgraph/internal/testutil"
	"github.com/hupe1980/agentgraph/strategy"
)

func linearGraph(t *testing.T) *strategy.Graph {
	t.Helper()
	g, err := strategy.New("linear").
		AddNode(strategy.NewNode("double", func(_ context.Context, _ *core.AgentContext, n int) (int, error) {
			return n * 2, nil
		})).
		AddEdge(strategy.StartNodeName, "double").
		AddEdge("double", strategy.FinishNodeName).
		Compile()
	require.NoError(t, err)
	return g
}

func TestEngine_RunWalksGraphToFinish(t *testing.T) {
	e := New(feature.NewPipeline())
	agentCtx := testutil.NewAgentContextBuilder().Build()

	result, err := e.Run(context.Background(), agentCtx, linearGraph(t), 21)
	require.NoError(t, err)
	assert.Equal(t, 42, result)

	// start, double, finish
	assert.Equal(t, 3, agentCtx.State().Steps())
}

func TestEngine_NodeHooksFireInOrder(t *testing.T) {
	pipeline := feature.NewPipeline()

	var trace []string
	pipeline.InterceptStrategyStarted(func(_ context.Context, _ *core.AgentContext) {
		trace = append(trace, "strategy_start")
	})
	pipeline.InterceptBeforeNode(func(_ context.Context, _ *core.AgentContext, node string, _ any) {
		trace = append(trace, "before:"+node)
	})
	pipeline.InterceptAfterNode(func(_ context.Context, _ *core.AgentContext, node string, _, _ any) {
		trace = append(trace, "after:"+node)
	})
	pipeline.InterceptStrategyFinished(func(_ context.Context, _ *core.AgentContext, _ any) {
		trace = append(trace, "strategy_finish")
	})

	e := New(pipeline)
	agentCtx := testutil.NewAgentContextBuilder().Build()

	_, err := e.Run(context.Background(), agentCtx, linearGraph(t), 1)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"strategy_start",
		"before:" + strategy.StartNodeName, "after:" + strategy.StartNodeName,
		"before:double", "after:double",
		"before:" + strategy.FinishNodeName, "after:" + strategy.FinishNodeName,
		"strategy_finish",
	}, trace)
}

func TestEngine_NoMatchingEdgeIsStuck(t *testing.T) {
	g, err := strategy.New("stuck").
		AddNode(strategy.NewNode("picky", func(_ context.Context, _ *core.AgentContext, n int) (int, error) {
			return n, nil
		})).
		AddEdge(strategy.StartNodeName, "picky").
		AddEdge("picky", strategy.FinishNodeName, strategy.OnCondition(func(output any) bool {
			return output.(int) > 100
		})).
		Compile()
	require.NoError(t, err)

	e := New(feature.NewPipeline())
	agentCtx := testutil.NewAgentContextBuilder().Build()

	_, err = e.Run(context.Background(), agentCtx, g, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoMatchingEdge))
}

func TestEngine_NodeErrorFiresErrorHook(t *testing.T) {
	boom := errors.New("node blew up")
	g, err := strategy.New("failing").
		AddNode(strategy.NewNode("bad", func(_ context.Context, _ *core.AgentContext, _ any) (any, error) {
			return nil, boom
		})).
		AddEdge(strategy.StartNodeName, "bad").
		AddEdge("bad", strategy.FinishNodeName).
		Compile()
	require.NoError(t, err)

	pipeline := feature.NewPipeline()
	var failedNode string
	pipeline.InterceptNodeExecutionError(func(_ context.Context, _ *core.AgentContext, node string, _ error) {
		failedNode = node
	})

	e := New(pipeline)
	agentCtx := testutil.NewAgentContextBuilder().Build()

	_, err = e.Run(context.Background(), agentCtx, g, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, "bad", failedNode)
}

func TestEngine_IterationCeilingBoundary(t *testing.T) {
	// The linear graph needs exactly 3 traversals (start, double, finish).
	g := linearGraph(t)

	e := New(feature.NewPipeline(), func(o *Options) { o.MaxIterations = 3 })
	agentCtx := testutil.NewAgentContextBuilder().Build()
	_, err := e.Run(context.Background(), agentCtx, g, 1)
	assert.NoError(t, err)

	e = New(feature.NewPipeline(), func(o *Options) { o.MaxIterations = 2 })
	agentCtx = testutil.NewAgentContextBuilder().Build()
	_, err = e.Run(context.Background(), agentCtx, g, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIterationLimitExceeded))
}

func TestEngine_IterationCeilingStopsLoops(t *testing.T) {
	g, err := strategy.New("endless").
		AddNode(strategy.NewNode("spin", func(_ context.Context, _ *core.AgentContext, n int) (int, error) {
			return n + 1, nil
		})).
		AddEdge(strategy.StartNodeName, "spin").
		AddEdge("spin", "spin", strategy.OnCondition(func(output any) bool {
			return output.(int) < 1000
		})).
		AddEdge("spin", strategy.FinishNodeName).
		Compile()
	require.NoError(t, err)

	e := New(feature.NewPipeline(), func(o *Options) { o.MaxIterations = 10 })
	agentCtx := testutil.NewAgentContextBuilder().Build()

	_, err = e.Run(context.Background(), agentCtx, g, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIterationLimitExceeded))
}

func TestEngine_EdgeTransformErrorIsFatal(t *testing.T) {
	g, err := strategy.New("badtransform").
		AddNode(passNode("a")).
		AddEdge(strategy.StartNodeName, "a").
		AddEdge("a", strategy.FinishNodeName, strategy.Transformed(func(any) (any, error) {
			return nil, errors.New("transform failed")
		})).
		Compile()
	require.NoError(t, err)

	e := New(feature.NewPipeline())
	agentCtx := testutil.NewAgentContextBuilder().Build()

	_, err = e.Run(context.Background(), agentCtx, g, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transform failed")
}

func TestEngine_CancelledContextAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New(feature.NewPipeline())
	agentCtx := testutil.NewAgentContextBuilder().Build()

	_, err := e.Run(ctx, agentCtx, linearGraph(t), 1)
	assert.True(t, errors.Is(err, context.Canceled))
}

func passNode(name string) strategy.Node {
	return strategy.NewNode(name, func(_ context.Context, _ *core.AgentContext, input any) (any, error) {
		return input, nil
	})
}
