// Package memory provides an in-memory metadata cache.
package memory

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/remsync/internal/core/domain"
	"github.com/custodia-labs/remsync/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.MetadataCache = (*Cache)(nil)

// Cache is an in-memory implementation of driven.MetadataCache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]domain.FileState
}

// NewCache creates an empty in-memory cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]domain.FileState),
	}
}

// Get returns the cached state for a path.
func (c *Cache) Get(_ context.Context, path string) (*domain.FileState, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	state, ok := c.entries[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &state, nil
}

// Put stores or replaces the state for state.Path.
func (c *Cache) Put(_ context.Context, state domain.FileState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[state.Path] = state
	return nil
}

// Evict removes the entry for a path.
func (c *Cache) Evict(_ context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
	return nil
}

// EvictPrefix removes every entry at or under prefix.
func (c *Cache) EvictPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for path := range c.entries {
		if path == prefix || strings.HasPrefix(path, prefix+string(filepath.Separator)) {
			delete(c.entries, path)
		}
	}
	return nil
}

// Close releases cache resources.
func (c *Cache) Close() error {
	return nil
}

// Len returns the number of cached entries. Useful for tests.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
