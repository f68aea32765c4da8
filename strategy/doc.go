// Package strategy provides the graph model for agentgraph: typed nodes with
// a single execute operation, conditioned and optionally transforming edges,
// and a builder that validates the graph shape at compile time — fast-fail
// before any model call is made.
//
// A strategy is a named directed graph with one start node (identity) and one
// finish node. During a run the engine walks the graph, evaluating the
// outgoing edges of each node in registration order and taking the first
// whose condition matches.
package strategy
