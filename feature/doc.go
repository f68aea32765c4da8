// Package feature implements the cross-cutting interception pipeline of
// agentgraph. Features (tracing, event handling, test mocking) are installed
// into a Pipeline under a typed key; each contributes handlers for lifecycle
// hooks fired by the engine, the prebuilt strategy nodes and the tool
// environment. The core never depends on any concrete feature.
//
// Handlers for a given hook fire in feature-installation order and complete
// before execution proceeds, so observing features stay consistent with
// execution order.
package feature
