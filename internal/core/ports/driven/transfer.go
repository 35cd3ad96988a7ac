package driven

import (
	"context"

	"github.com/custodia-labs/remsync/internal/core/domain"
)

// TransferEngine moves file content between the local workspace and the
// remote store a service addresses. Implementations are synchronous;
// the coordinator decides what runs in the background. Failures wrap
// domain.ErrTransfer.
type TransferEngine interface {
	// Upload sends the local file at localPath to the service's
	// remote location.
	Upload(ctx context.Context, service *domain.RemoteService, localPath string) error

	// Download fetches the service's remote content for localPath
	// and replaces the local file.
	Download(ctx context.Context, service *domain.RemoteService, localPath string) error
}
