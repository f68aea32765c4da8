// Package core contains the shared execution primitives of agentgraph: the
// per-run AgentContext with its fork/replace semantics, the message and prompt
// model exchanged with prompt executors, the tool-execution Environment
// contract and the typed key/value Storage used by features to stash run
// scoped state.
//
// The package is dependency-free with respect to the rest of the framework so
// that strategies, the engine, the feature pipeline and tools can all build on
// it without cycles.
package core
