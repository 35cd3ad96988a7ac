package services

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/remsync/internal/core/domain"
	"github.com/custodia-labs/remsync/internal/core/ports/driven"
)

// Ensure ServiceRegistry implements the interface.
var _ driven.ServiceRegistry = (*ServiceRegistry)(nil)

// ServiceRegistry is an in-memory implementation of
// driven.ServiceRegistry.
type ServiceRegistry struct {
	mu       sync.RWMutex
	services map[string]*domain.RemoteService
}

// NewServiceRegistry creates an empty registry.
func NewServiceRegistry() *ServiceRegistry {
	return &ServiceRegistry{
		services: make(map[string]*domain.RemoteService),
	}
}

// Create validates the profile and registers a new service scoped to
// the workspace root.
func (r *ServiceRegistry) Create(_ context.Context, profile domain.ConnectionProfile, workspaceRoot string) (*domain.RemoteService, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	contextDir := profile.Context
	if contextDir == "" {
		contextDir = "."
	}

	svc := &domain.RemoteService{
		ID:        uuid.NewString(),
		Workspace: workspaceRoot,
		LocalRoot: filepath.Clean(filepath.Join(workspaceRoot, contextDir)),
		Profile:   profile,
		CreatedAt: time.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[svc.ID] = svc
	return svc, nil
}

// GetByPath returns the governing service for a local file path.
// The service with the longest local root wins when several match.
func (r *ServiceRegistry) GetByPath(_ context.Context, path string) (*domain.RemoteService, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *domain.RemoteService
	for _, svc := range r.services {
		if !svc.Governs(path) {
			continue
		}
		if best == nil || len(svc.LocalRoot) > len(best.LocalRoot) {
			best = svc
		}
	}
	if best == nil {
		return nil, domain.ErrNoService
	}
	return best, nil
}

// FindAll returns every service matching the predicate.
func (r *ServiceRegistry) FindAll(_ context.Context, match func(*domain.RemoteService) bool) ([]*domain.RemoteService, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.RemoteService, 0, len(r.services))
	for _, svc := range r.services {
		if match == nil || match(svc) {
			result = append(result, svc)
		}
	}
	return result, nil
}

// Dispose removes a service by ID.
func (r *ServiceRegistry) Dispose(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.services, id)
	return nil
}

// DisposeAll removes every registered service.
func (r *ServiceRegistry) DisposeAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services = make(map[string]*domain.RemoteService)
	return nil
}
