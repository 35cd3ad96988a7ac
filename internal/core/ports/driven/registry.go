package driven

import (
	"context"

	"github.com/custodia-labs/remsync/internal/core/domain"
)

// ServiceRegistry maps (workspace root, profile) pairs to live remote
// services. Create and Dispose are individually atomic.
type ServiceRegistry interface {
	// Create registers a new service for a profile scoped to a
	// workspace root.
	Create(ctx context.Context, profile domain.ConnectionProfile, workspaceRoot string) (*domain.RemoteService, error)

	// GetByPath returns the service governing a local file path.
	// When several services govern the path, the one with the most
	// specific local root wins. Returns domain.ErrNoService when no
	// service governs the path.
	GetByPath(ctx context.Context, path string) (*domain.RemoteService, error)

	// FindAll returns every service matching the predicate. A nil
	// predicate matches everything.
	FindAll(ctx context.Context, match func(*domain.RemoteService) bool) ([]*domain.RemoteService, error)

	// Dispose removes a service by ID. Disposing an unknown ID is a
	// no-op.
	Dispose(ctx context.Context, id string) error

	// DisposeAll removes every registered service.
	DisposeAll(ctx context.Context) error
}
