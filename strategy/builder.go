package strategy

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentgraph/core"
)

// Builder assembles a strategy graph. Every builder starts with the
// __start__ and __finish__ identity nodes already present; wire your own
// nodes between them and call Compile.
type Builder struct {
	name  string
	nodes map[string]Node
	order []string
	edges map[string][]Edge

	toolNames []string

	errs []error
}

// New creates a builder for a named strategy.
func New(name string) *Builder {
	b := &Builder{
		name:  name,
		nodes: make(map[string]Node),
		edges: make(map[string][]Edge),
	}
	b.addNode(identityNode(StartNodeName))
	b.addNode(identityNode(FinishNodeName))
	return b
}

func (b *Builder) addNode(n Node) {
	if _, exists := b.nodes[n.Name()]; exists {
		b.errs = append(b.errs, fmt.Errorf("duplicate node %q", n.Name()))
		return
	}
	b.nodes[n.Name()] = n
	b.order = append(b.order, n.Name())
}

// AddNode registers a node. Node names must be unique within the graph.
func (b *Builder) AddNode(n Node) *Builder {
	if n.Name() == "" {
		b.errs = append(b.errs, fmt.Errorf("node name must not be empty"))
		return b
	}
	b.addNode(n)
	return b
}

// AddEdge connects two nodes. Edges are evaluated in the order they were
// added; the first whose condition matches wins.
func (b *Builder) AddEdge(from, to string, optFns ...EdgeOption) *Builder {
	e := Edge{From: from, To: to}
	for _, fn := range optFns {
		fn(&e)
	}
	b.edges[from] = append(b.edges[from], e)
	return b
}

// WithTools restricts the tools visible to the model while this strategy
// runs. Without it, every tool in the agent's registry is visible.
func (b *Builder) WithTools(names ...string) *Builder {
	b.toolNames = append(b.toolNames, names...)
	return b
}

// Compile validates the graph and returns an immutable Graph. It fails when
// an edge references an unknown node, when a node reachable from start has
// no outgoing edge (the walk would get stuck there), or when the finish node
// cannot be reached at all.
func (b *Builder) Compile() (*Graph, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("strategy %q: %w", b.name, b.errs[0])
	}

	for from, edges := range b.edges {
		if _, ok := b.nodes[from]; !ok {
			return nil, fmt.Errorf("strategy %q: edge from unknown node %q", b.name, from)
		}
		for _, e := range edges {
			if _, ok := b.nodes[e.To]; !ok {
				return nil, fmt.Errorf("strategy %q: edge %q -> %q targets unknown node", b.name, from, e.To)
			}
		}
	}

	reachable := b.reachableFromStart()
	for _, name := range b.order {
		if !reachable[name] || name == FinishNodeName {
			continue
		}
		if len(b.edges[name]) == 0 {
			return nil, fmt.Errorf("strategy %q: node %q has no outgoing edge", b.name, name)
		}
	}
	if !reachable[FinishNodeName] {
		return nil, fmt.Errorf("strategy %q: finish node is not reachable from start", b.name)
	}

	g := &Graph{
		name:   b.name,
		start:  StartNodeName,
		finish: FinishNodeName,
		nodes:  make(map[string]Node, len(b.nodes)),
		edges:  make(map[string][]Edge, len(b.edges)),
	}
	for name, n := range b.nodes {
		g.nodes[name] = n
	}
	for from, edges := range b.edges {
		g.edges[from] = append([]Edge(nil), edges...)
	}
	if b.toolNames != nil {
		g.toolNames = append([]string(nil), b.toolNames...)
	}
	return g, nil
}

func (b *Builder) reachableFromStart() map[string]bool {
	reachable := map[string]bool{StartNodeName: true}
	queue := []string{StartNodeName}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, e := range b.edges[current] {
			if !reachable[e.To] {
				reachable[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	return reachable
}

// Chain composes graphs into a single strategy that runs them in sequence:
// the finish of one feeds the start of the next. Node names are prefixed
// with their graph name to keep them unique. The tool policy of the result
// is the union of the parts; if any part exposes the whole registry, so does
// the chain.
func Chain(name string, graphs ...*Graph) (*Graph, error) {
	if len(graphs) == 0 {
		return nil, fmt.Errorf("strategy %q: chain needs at least one graph", name)
	}

	out := &Graph{
		name:   name,
		start:  StartNodeName,
		finish: FinishNodeName,
		nodes:  make(map[string]Node),
		edges:  make(map[string][]Edge),
	}
	out.nodes[StartNodeName] = identityNode(StartNodeName)
	out.nodes[FinishNodeName] = identityNode(FinishNodeName)

	qualify := func(g *Graph, node string) string {
		return fmt.Sprintf("%s.%s", g.Name(), node)
	}

	allTools := false
	var toolNames []string
	for i, g := range graphs {
		for nodeName, n := range g.nodes {
			qualified := qualify(g, nodeName)
			if _, exists := out.nodes[qualified]; exists {
				return nil, fmt.Errorf("strategy %q: duplicate node %q in chain", name, qualified)
			}
			out.nodes[qualified] = renamedNode{name: qualified, inner: n}
		}
		for from, edges := range g.edges {
			for _, e := range edges {
				out.edges[qualify(g, from)] = append(out.edges[qualify(g, from)], Edge{
					From:      qualify(g, from),
					To:        qualify(g, e.To),
					condition: e.condition,
					transform: e.transform,
				})
			}
		}
		if i == 0 {
			out.edges[StartNodeName] = []Edge{{From: StartNodeName, To: qualify(g, g.start)}}
		} else {
			prev := graphs[i-1]
			from := qualify(prev, prev.finish)
			out.edges[from] = append(out.edges[from], Edge{From: from, To: qualify(g, g.start)})
		}
		if g.toolNames == nil {
			allTools = true
		} else {
			toolNames = append(toolNames, g.toolNames...)
		}
	}

	last := graphs[len(graphs)-1]
	from := qualify(last, last.finish)
	out.edges[from] = append(out.edges[from], Edge{From: from, To: FinishNodeName})

	if !allTools {
		out.toolNames = toolNames
	}
	return out, nil
}

// renamedNode gives a node a qualified name inside a chain without touching
// its behavior.
type renamedNode struct {
	name  string
	inner Node
}

func (n renamedNode) Name() string { return n.name }

func (n renamedNode) Run(ctx context.Context, agentCtx *core.AgentContext, input any) (any, error) {
	return n.inner.Run(ctx, agentCtx, input)
}
