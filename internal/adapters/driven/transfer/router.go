// Package transfer routes upload and download requests to the engine
// registered for a service's backend.
package transfer

import (
	"context"
	"fmt"

	"github.com/custodia-labs/remsync/internal/core/domain"
	"github.com/custodia-labs/remsync/internal/core/ports/driven"
)

// Ensure Router implements the interface.
var _ driven.TransferEngine = (*Router)(nil)

// Router dispatches transfers on the profile's backend type.
type Router struct {
	engines map[domain.Backend]driven.TransferEngine
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{
		engines: make(map[domain.Backend]driven.TransferEngine),
	}
}

// Register installs the engine for a backend, replacing any previous one.
func (r *Router) Register(backend domain.Backend, engine driven.TransferEngine) {
	r.engines[backend] = engine
}

// Upload dispatches to the engine for the service's backend.
func (r *Router) Upload(ctx context.Context, service *domain.RemoteService, localPath string) error {
	engine, err := r.engineFor(service)
	if err != nil {
		return err
	}
	return engine.Upload(ctx, service, localPath)
}

// Download dispatches to the engine for the service's backend.
func (r *Router) Download(ctx context.Context, service *domain.RemoteService, localPath string) error {
	engine, err := r.engineFor(service)
	if err != nil {
		return err
	}
	return engine.Download(ctx, service, localPath)
}

func (r *Router) engineFor(service *domain.RemoteService) (driven.TransferEngine, error) {
	engine, ok := r.engines[service.Profile.Backend]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedBackend, service.Profile.Backend)
	}
	return engine, nil
}
