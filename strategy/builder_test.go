package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentgraph/core"
)

func passThroughNode(name string) Node {
	return NewNode(name, func(_ context.Context, _ *core.AgentContext, input any) (any, error) {
		return input, nil
	})
}

func TestBuilder_CompileHappyPath(t *testing.T) {
	g, err := New("linear").
		AddNode(passThroughNode("a")).
		AddNode(passThroughNode("b")).
		AddEdge(StartNodeName, "a").
		AddEdge("a", "b").
		AddEdge("b", FinishNodeName).
		Compile()
	require.NoError(t, err)

	assert.Equal(t, "linear", g.Name())
	assert.Equal(t, StartNodeName, g.Start())
	assert.Equal(t, FinishNodeName, g.Finish())

	_, ok := g.Node("a")
	assert.True(t, ok)
}

func TestBuilder_RejectsDuplicateNode(t *testing.T) {
	_, err := New("dup").
		AddNode(passThroughNode("a")).
		AddNode(passThroughNode("a")).
		AddEdge(StartNodeName, "a").
		AddEdge("a", FinishNodeName).
		Compile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate node")
}

func TestBuilder_RejectsEdgeToUnknownNode(t *testing.T) {
	_, err := New("dangling").
		AddNode(passThroughNode("a")).
		AddEdge(StartNodeName, "a").
		AddEdge("a", "ghost").
		Compile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown node")
}

func TestBuilder_RejectsReachableDeadEnd(t *testing.T) {
	// "a" is reachable but has no outgoing edge; a run would get stuck there.
	_, err := New("deadend").
		AddNode(passThroughNode("a")).
		AddEdge(StartNodeName, "a").
		Compile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no outgoing edge")
}

func TestBuilder_RejectsUnreachableFinish(t *testing.T) {
	// start -> a -> a loops forever and never reaches finish.
	_, err := New("loop").
		AddNode(passThroughNode("a")).
		AddEdge(StartNodeName, "a").
		AddEdge("a", "a").
		Compile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "finish node is not reachable")
}

func TestBuilder_IgnoresUnreachableDeadEnd(t *testing.T) {
	// "orphan" has no outgoing edge but is never reached, which is fine.
	_, err := New("orphan").
		AddNode(passThroughNode("a")).
		AddNode(passThroughNode("orphan")).
		AddEdge(StartNodeName, "a").
		AddEdge("a", FinishNodeName).
		Compile()
	assert.NoError(t, err)
}

func TestBuilder_EdgeOrderIsPreserved(t *testing.T) {
	g, err := New("ordered").
		AddNode(passThroughNode("a")).
		AddEdge(StartNodeName, "a").
		AddEdge("a", FinishNodeName, OnCondition(func(any) bool { return true })).
		AddEdge("a", "a", OnCondition(func(any) bool { return true })).
		Compile()
	require.NoError(t, err)

	edges := g.Edges("a")
	require.Len(t, edges, 2)
	assert.Equal(t, FinishNodeName, edges[0].To)
	assert.Equal(t, "a", edges[1].To)
}

func TestBuilder_WithTools(t *testing.T) {
	g, err := New("tools").
		AddNode(passThroughNode("a")).
		AddEdge(StartNodeName, "a").
		AddEdge("a", FinishNodeName).
		WithTools("calculator").
		Compile()
	require.NoError(t, err)

	assert.Equal(t, []string{"calculator"}, g.ToolNames())
}

func TestChain_ComposesGraphsInSequence(t *testing.T) {
	first, err := New("first").
		AddNode(passThroughNode("a")).
		AddEdge(StartNodeName, "a").
		AddEdge("a", FinishNodeName).
		Compile()
	require.NoError(t, err)

	second, err := New("second").
		AddNode(passThroughNode("b")).
		AddEdge(StartNodeName, "b").
		AddEdge("b", FinishNodeName).
		Compile()
	require.NoError(t, err)

	chained, err := Chain("combined", first, second)
	require.NoError(t, err)

	// Composite start routes into the first graph.
	edges := chained.Edges(StartNodeName)
	require.Len(t, edges, 1)
	assert.Equal(t, "first."+StartNodeName, edges[0].To)

	// First graph's finish hands over to the second graph's start.
	edges = chained.Edges("first." + FinishNodeName)
	require.Len(t, edges, 1)
	assert.Equal(t, "second."+StartNodeName, edges[0].To)

	// Last graph's finish reaches the composite finish.
	edges = chained.Edges("second." + FinishNodeName)
	require.Len(t, edges, 1)
	assert.Equal(t, FinishNodeName, edges[0].To)
}

func TestChain_ToolPolicyUnion(t *testing.T) {
	withTools, err := New("with").
		AddNode(passThroughNode("a")).
		AddEdge(StartNodeName, "a").
		AddEdge("a", FinishNodeName).
		WithTools("calculator").
		Compile()
	require.NoError(t, err)

	allTools, err := New("all").
		AddNode(passThroughNode("b")).
		AddEdge(StartNodeName, "b").
		AddEdge("b", FinishNodeName).
		Compile()
	require.NoError(t, err)

	restricted, err := Chain("restricted", withTools, withTools)
	require.Error(t, err) // same graph twice collides on node names

	restricted, err = Chain("restricted", withTools)
	require.NoError(t, err)
	assert.Equal(t, []string{"calculator"}, restricted.ToolNames())

	open, err := Chain("open", withTools, allTools)
	require.NoError(t, err)
	assert.Nil(t, open.ToolNames())
}

func TestNewNode_RejectsWrongInputType(t *testing.T) {
	n := NewNode("typed", func(_ context.Context, _ *core.AgentContext, input string) (string, error) {
		return input, nil
	})

	_, err := n.Run(context.Background(), nil, 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected input type")
}
