// Package engine walks a compiled strategy graph and hosts the tool
// environment backing a run. The engine owns the run loop — node execution,
// edge selection, the iteration ceiling — while the feature pipeline observes
// every step through its hooks.
package engine
