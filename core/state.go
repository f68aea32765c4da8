package core

import "maps"

// StateManager tracks run progress: the global step counter incremented on
// every node traversal plus arbitrary custom state a strategy wants to carry
// across nodes.
//
// Like SessionContext it carries no lock of its own; it is part of the
// AgentContext's mutable triple.
type StateManager struct {
	steps  int
	values map[string]any
}

// NewStateManager creates an empty state manager.
func NewStateManager() *StateManager {
	return &StateManager{values: map[string]any{}}
}

// IncrementSteps advances the global step counter and returns the new value.
func (sm *StateManager) IncrementSteps() int {
	sm.steps++
	return sm.steps
}

// Steps returns the number of node traversals performed so far.
func (sm *StateManager) Steps() int { return sm.steps }

// Set stores a custom state value.
func (sm *StateManager) Set(key string, value any) { sm.values[key] = value }

// Get returns a custom state value and an existence flag.
func (sm *StateManager) Get(key string) (any, bool) {
	v, ok := sm.values[key]
	return v, ok
}

// Clone returns a deep copy of the state manager. Values are copied shallowly;
// strategies storing mutable values across forked branches must copy them
// themselves.
func (sm *StateManager) Clone() *StateManager {
	if sm == nil {
		return nil
	}
	c := &StateManager{steps: sm.steps, values: make(map[string]any, len(sm.values))}
	maps.Copy(c.values, sm.values)
	return c
}
