package strategy

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentgraph/core"
)

// Names of the two nodes present in every compiled graph.
const (
	StartNodeName  = "__start__"
	FinishNodeName = "__finish__"
)

// Node is a single named step in a strategy graph. Run receives the value
// produced by the previous node (after edge transformation) and returns the
// value evaluated against this node's outgoing edges.
type Node interface {
	Name() string
	Run(ctx context.Context, agentCtx *core.AgentContext, input any) (any, error)
}

type funcNode struct {
	name string
	fn   func(ctx context.Context, agentCtx *core.AgentContext, input any) (any, error)
}

func (n *funcNode) Name() string { return n.name }

func (n *funcNode) Run(ctx context.Context, agentCtx *core.AgentContext, input any) (any, error) {
	return n.fn(ctx, agentCtx, input)
}

// NewNode creates a node from a typed function. The incoming value is
// type-asserted to In before the function is called; a mismatch is a
// graph-wiring bug and fails the run.
func NewNode[In, Out any](name string, fn func(ctx context.Context, agentCtx *core.AgentContext, input In) (Out, error)) Node {
	return &funcNode{
		name: name,
		fn: func(ctx context.Context, agentCtx *core.AgentContext, input any) (any, error) {
			typed, ok := input.(In)
			if !ok {
				return nil, fmt.Errorf("node %q: unexpected input type %T", name, input)
			}
			return fn(ctx, agentCtx, typed)
		},
	}
}

// identityNode passes its input straight through. Start and finish nodes are
// identity nodes.
func identityNode(name string) Node {
	return &funcNode{
		name: name,
		fn: func(_ context.Context, _ *core.AgentContext, input any) (any, error) {
			return input, nil
		},
	}
}
