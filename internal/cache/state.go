package cache

import (
	"sync"

	"github.com/OCAP2/csvmap/pkg/core"
)

// StateCache holds the map state of the most recent successful import.
// A state is never merged with its predecessor; it is swapped whole.
type StateCache struct {
	mu      sync.RWMutex
	state   *core.MapState
	imports SafeCounter
}

// NewStateCache creates an empty StateCache
func NewStateCache() *StateCache {
	return &StateCache{}
}

// Get returns the current state, or nil when nothing has been imported
// or the last import cleared it. Callers must not mutate the result.
func (c *StateCache) Get() *core.MapState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Replace installs s as the current state.
func (c *StateCache) Replace(s *core.MapState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.imports.Inc()
}

// Reset clears the current state.
func (c *StateCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = nil
}

// Markers returns the accepted markers of the current state.
func (c *StateCache) Markers() []core.MarkerDescriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state == nil {
		return nil
	}
	return c.state.Accepted
}

// Imports returns how many states have been installed since start.
func (c *StateCache) Imports() int {
	return c.imports.Value()
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}
