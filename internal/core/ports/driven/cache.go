package driven

import (
	"context"

	"github.com/custodia-labs/remsync/internal/core/domain"
)

// MetadataCache stores remote file state keyed by absolute local path.
// Transfer engines populate it; the coordinator evicts the entry for a
// path on every save, before any other action is dispatched.
type MetadataCache interface {
	// Get returns the cached state for a path, or domain.ErrNotFound.
	Get(ctx context.Context, path string) (*domain.FileState, error)

	// Put stores or replaces the state for state.Path.
	Put(ctx context.Context, state domain.FileState) error

	// Evict removes the entry for a path. Evicting an absent path is
	// a no-op.
	Evict(ctx context.Context, path string) error

	// EvictPrefix removes every entry whose path is at or under prefix.
	EvictPrefix(ctx context.Context, prefix string) error

	// Close releases cache resources.
	Close() error
}
