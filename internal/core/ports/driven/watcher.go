package driven

import (
	"context"

	"github.com/custodia-labs/remsync/internal/core/domain"
)

// Subscription is a live stream of document events. Closing it stops
// delivery and closes the events channel.
type Subscription interface {
	// Events returns the event channel. The channel is closed when
	// the subscription is closed or the underlying source ends.
	Events() <-chan domain.DocumentEvent

	// Close releases the subscription. Safe to call more than once.
	Close() error
}

// WatcherFactory creates filesystem watchers over workspace roots.
// The coordinator owns at most one watcher of each kind at a time.
type WatcherFactory interface {
	// WatchSaves yields save events for every file written under the
	// given roots, profile files included.
	WatchSaves(ctx context.Context, roots []string) (Subscription, error)

	// WatchConfig yields save events only for profile files under the
	// given roots. Only writes are observed; create and delete are
	// intentionally not wired.
	WatchConfig(ctx context.Context, roots []string) (Subscription, error)
}

// EventSource delivers document open/save events from the host editor.
type EventSource interface {
	// Subscribe installs the single active subscription, replacing
	// any previous one.
	Subscribe(ctx context.Context) (Subscription, error)
}
