package driven

import "github.com/custodia-labs/remsync/internal/core/domain"

// StatusReporter is the minimal user-interface contract the coordinator
// needs: a status badge, an error channel, and a remote-explorer
// refresh. Implementations must not block.
type StatusReporter interface {
	// SetBadge records the sync status shown to the user.
	SetBadge(badge domain.Badge)

	// ReportError surfaces a recovered error to the user.
	ReportError(err error)

	// RefreshExplorer re-renders the remote-explorer view from the
	// current set of services.
	RefreshExplorer(services []*domain.RemoteService)
}
