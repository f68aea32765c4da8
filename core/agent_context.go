package core

import (
	"sync"

	"github.com/hupe1980/agentgraph/logging"
)

// AgentContext is the per-run mutable bundle handed to every node execution.
// It aggregates:
//   - The tool-execution Environment handle
//   - The model session (prompt, model id, visible tools, executor)
//   - The StateManager (step counter, custom strategy state)
//   - The typed key/value Storage (feature-scoped run data)
//   - Run identifier and strategy name
//
// The mutable triple (session, state, storage) is guarded by a single
// read/write lock: readers take the read lock when fetching the component
// pointers, Fork and Replace take the corresponding lock for the copy/swap.
// This keeps the locking discipline centralized; readers never observe a
// half-updated triple. Mutation of a component's contents is owned by the
// single branch currently executing with it (parallel branches operate on
// forks).
type AgentContext struct {
	mu      sync.RWMutex
	session *SessionContext
	state   *StateManager
	storage *Storage

	env          Environment
	hooks        RunHooks
	runID        string
	strategyName string

	*loggerAdapter
}

// NewAgentContext constructs a run context with fresh state and storage.
func NewAgentContext(
	env Environment,
	hooks RunHooks,
	session *SessionContext,
	runID, strategyName string,
	logger logging.Logger,
) *AgentContext {
	if hooks == nil {
		hooks = NoOpHooks{}
	}
	return &AgentContext{
		session:       session,
		state:         NewStateManager(),
		storage:       NewStorage(),
		env:           env,
		hooks:         hooks,
		runID:         runID,
		strategyName:  strategyName,
		loggerAdapter: newLoggerAdapter(logger),
	}
}

// RunID returns the identifier correlating all events of this run.
func (c *AgentContext) RunID() string { return c.runID }

// StrategyName returns the name of the strategy driving this run.
func (c *AgentContext) StrategyName() string { return c.strategyName }

// Environment returns the tool-execution environment handle.
func (c *AgentContext) Environment() Environment { return c.env }

// Hooks returns the run's interception hooks (never nil).
func (c *AgentContext) Hooks() RunHooks { return c.hooks }

// Session returns the current model session component.
func (c *AgentContext) Session() *SessionContext {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// State returns the current state manager component.
func (c *AgentContext) State() *StateManager {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Storage returns the current typed key/value storage component.
func (c *AgentContext) Storage() *Storage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.storage
}

// Fork produces an independent deep copy of the mutable triple for a parallel
// branch. The fork shares the environment, hooks, identifiers and logger with
// the parent; subsequent mutation of either side is invisible to the other.
func (c *AgentContext) Fork() *AgentContext {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &AgentContext{
		session:       c.session.Clone(),
		state:         c.state.Clone(),
		storage:       c.storage.Clone(),
		env:           c.env,
		hooks:         c.hooks,
		runID:         c.runID,
		strategyName:  c.strategyName,
		loggerAdapter: c.loggerAdapter,
	}
}

// Replace atomically swaps in the non-nil components of other, merging a
// forked branch's results back into the receiver after the branch completes.
// Nil components of other leave the corresponding field unchanged.
func (c *AgentContext) Replace(other *AgentContext) {
	if other == nil {
		return
	}
	other.mu.RLock()
	session, state, storage := other.session, other.state, other.storage
	other.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if session != nil {
		c.session = session
	}
	if state != nil {
		c.state = state
	}
	if storage != nil {
		c.storage = storage
	}
}
