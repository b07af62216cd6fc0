package health

import (
	"fmt"
	"sync"
)

// Registry maps component names to probes. Registration order is
// preserved and is the default execution and display order.
//
// The usual lifecycle is register-once-at-startup, but the mapping is
// lock-guarded so registration may safely race with checking.
type Registry struct {
	mu     sync.RWMutex
	probes map[string]Probe
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		probes: make(map[string]Probe),
	}
}

// Register stores probe under name. It fails with ErrDuplicateComponent
// if the name is already taken, leaving the existing registration untouched.
func (r *Registry) Register(name string, probe Probe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.probes[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateComponent, name)
	}
	r.probes[name] = probe
	r.order = append(r.order, name)
	return nil
}

// Names returns the registered component names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Get looks up a probe by name. It fails with ErrUnknownComponent if absent.
func (r *Registry) Get(name string) (Probe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	probe, ok := r.probes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	return probe, nil
}

// Len returns the number of registered probes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
