package strategy

// Graph is a compiled, immutable strategy. Build one with a Builder, or
// compose existing graphs with Chain.
type Graph struct {
	name   string
	start  string
	finish string

	nodes map[string]Node
	// edges keyed by source node, in registration order. Order matters:
	// the engine takes the first matching edge.
	edges map[string][]Edge

	// toolNames restricts which registered tools the model sees during a
	// run. nil means every tool in the registry.
	toolNames []string
}

// Name returns the strategy name.
func (g *Graph) Name() string { return g.name }

// Start returns the name of the start node.
func (g *Graph) Start() string { return g.start }

// Finish returns the name of the finish node.
func (g *Graph) Finish() string { return g.finish }

// Node looks up a node by name.
func (g *Graph) Node(name string) (Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Edges returns the outgoing edges of a node in registration order.
func (g *Graph) Edges(from string) []Edge {
	return g.edges[from]
}

// ToolNames returns the tool policy of this graph, or nil when the whole
// registry is visible.
func (g *Graph) ToolNames() []string {
	if g.toolNames == nil {
		return nil
	}
	out := make([]string, len(g.toolNames))
	copy(out, g.toolNames)
	return out
}
