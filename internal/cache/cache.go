package cache

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/lumipallolabs/foldersize/internal/model"
)

// Cache maps a directory path to its last completed scan result.
// Records stay until they are invalidated; there is no eviction.
// It is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	results map[string]model.ScanResult
}

// New creates an empty cache
func New() *Cache {
	return &Cache{results: make(map[string]model.ScanResult)}
}

func key(path string) string {
	return filepath.Clean(path)
}

// Get returns a copy of the cached result for path
func (c *Cache) Get(path string) (model.ScanResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.results[key(path)]
	if !ok {
		return model.ScanResult{}, false
	}
	return r.Clone(), true
}

// Put stores result under path, replacing any existing record
func (c *Cache) Put(path string, result model.ScanResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[key(path)] = result.Clone()
}

// Invalidate removes the record for exactly path
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.results, key(path))
}

// InvalidateAll removes every record
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.results)
}

// InvalidateRelated removes the records a change at path can make stale:
// path itself, every directory beneath it and every ancestor of it.
// Returns the number of records removed.
func (c *Cache) InvalidateRelated(path string) int {
	path = key(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for p := range c.results {
		if model.IsWithin(p, path) || model.IsWithin(path, p) {
			delete(c.results, p)
			removed++
		}
	}
	return removed
}

// Len returns the number of cached directories
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}

// Paths returns the cached directory paths in sorted order
func (c *Cache) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.results))
	for p := range c.results {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
