package driver

import (
	"sync"

	"github.com/grafana/codejen"

	"sumgen/internal/model"
)

// UnitCache is the in-process memo of rendered output units, keyed by
// Digest(input, options).
type UnitCache struct {
	mu    sync.RWMutex
	units map[model.Digest]codejen.File
}

// NewUnitCache creates a UnitCache with the given capacity hint.
func NewUnitCache(capHint int) *UnitCache {
	return &UnitCache{units: make(map[model.Digest]codejen.File, capHint)}
}

// Get retrieves a unit by its key.
func (c *UnitCache) Get(key model.Digest) (codejen.File, bool) {
	c.mu.RLock()
	f, ok := c.units[key]
	c.mu.RUnlock()
	return f, ok
}

// Put inserts a unit.
func (c *UnitCache) Put(key model.Digest, f codejen.File) {
	c.mu.Lock()
	c.units[key] = f
	c.mu.Unlock()
}

// Len returns the number of memoized units.
func (c *UnitCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.units)
}

// Retain drops every unit whose key is not in keep.
func (c *UnitCache) Retain(keep map[model.Digest]struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.units {
		if _, ok := keep[k]; !ok {
			delete(c.units, k)
		}
	}
}
