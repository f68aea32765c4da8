package tool

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/agentgraph/core"
)

// ErrToolNotFound is the sentinel wrapped by Registry.Resolve misses. A tool
// call naming an unregistered tool is fatal for the run that issued it.
var ErrToolNotFound = fmt.Errorf("tool not found")

// Registry holds the set of tools available to an agent, keyed by unique
// name. It is append-only: tools can be registered at construction or before
// runs start, never removed.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates a registry pre-populated with the given tools.
// Duplicate names are a registration error.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: map[string]Tool{}}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a tool. Registering a second tool under an existing name is
// an error: names are the routing key for model-issued calls.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := t.Name()
	if name == "" {
		return fmt.Errorf("tool name must not be empty")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

// Resolve returns the tool registered under name, or a wrapped
// ErrToolNotFound.
func (r *Registry) Resolve(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return t, nil
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Descriptors returns the model-facing descriptors of all registered tools in
// registration order.
func (r *Registry) Descriptors() []core.ToolDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		out = append(out, core.ToolDescriptor{
			Name:        t.Name(),
			Description: t.Description(),
			Schema:      t.Schema(),
		})
	}
	return out
}

// Subset returns a new registry restricted to the named tools, used to scope
// the tool-selection policy of a strategy subgraph. Unknown names are an
// error so policy typos fail at build time rather than mid-run.
func (r *Registry) Subset(names ...string) (*Registry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub := &Registry{tools: map[string]Tool{}}
	missing := make([]string, 0)
	for _, name := range names {
		t, ok := r.tools[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		sub.tools[name] = t
		sub.order = append(sub.order, name)
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %v", ErrToolNotFound, missing)
	}
	return sub, nil
}
