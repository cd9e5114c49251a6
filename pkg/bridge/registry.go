package bridge

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Registry collects the slots of one sync session by name. Registries are
// instantiable rather than process-global because slots belong to a peer
// connection, and a host may serve several.
type Registry struct {
	slots map[string]*Slot
	mu    sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{slots: make(map[string]*Slot)}
}

// Add registers a slot under its name. Duplicate names are an error.
func (r *Registry) Add(slot *Slot) error {
	if slot == nil {
		return errors.New("nil slot")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.slots[slot.name]; exists {
		return fmt.Errorf("slot %q already registered", slot.name)
	}
	r.slots[slot.name] = slot
	return nil
}

// Find returns the slot registered under name.
func (r *Registry) Find(name string) (*Slot, bool) {
	r.mu.RLock()
	slot, ok := r.slots[name]
	r.mu.RUnlock()
	return slot, ok
}

// Remove drops the slot registered under name and reports whether one was
// registered. The slot itself keeps tracking its state.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[name]; !ok {
		return false
	}
	delete(r.slots, name)
	return true
}

// Names returns the registered slot names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.slots))
	for name := range r.slots {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}
