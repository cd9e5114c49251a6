package colormap

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// mapRegistry holds all registered colormaps.
type mapRegistry struct {
	maps map[string]*Colormap
	mu   sync.RWMutex
}

var registry = &mapRegistry{maps: make(map[string]*Colormap)}

// Register adds a colormap under its name. Registering a name twice is an
// error; built-in names are taken at init.
func Register(cm *Colormap) error {
	if cm == nil {
		return errors.New("nil colormap")
	}
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, exists := registry.maps[cm.name]; exists {
		return fmt.Errorf("colormap %q already registered", cm.name)
	}
	registry.maps[cm.name] = cm
	return nil
}

// Get resolves a colormap by name. A name ending in "_r" that is not itself
// registered resolves to the reversed form of its base colormap, so every
// registered table is addressable both ways.
func Get(name string) (*Colormap, bool) {
	registry.mu.RLock()
	cm, ok := registry.maps[name]
	registry.mu.RUnlock()
	if ok {
		return cm, true
	}
	base, found := strings.CutSuffix(name, "_r")
	if !found {
		return nil, false
	}
	registry.mu.RLock()
	cm, ok = registry.maps[base]
	registry.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return cm.Reversed(), true
}

// Names returns the registered colormap names in sorted order, without
// the derived "_r" variants.
func Names() []string {
	registry.mu.RLock()
	names := make([]string, 0, len(registry.maps))
	for name := range registry.maps {
		names = append(names, name)
	}
	registry.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Default returns the colormap used when a host names none.
func Default() *Colormap {
	cm, ok := Get("viridis")
	if !ok {
		panic("colormap: built-in table missing")
	}
	return cm
}
