package driving

import "context"

// Coordinator owns the workspace event lifecycle: it subscribes to
// document open/save events, watches profile files, and drives sync
// actions in response. Init and Teardown are its only public surface.
type Coordinator interface {
	// Init installs the event subscription and the watcher pair,
	// replacing any previous ones. Calling Init twice without an
	// intervening Teardown is safe and leaks nothing.
	Init(ctx context.Context) error

	// Bootstrap loads profiles for every workspace root that already
	// contains a profile file.
	Bootstrap(ctx context.Context) error

	// Teardown releases the subscription and both watchers and waits
	// for in-flight work. No-op when already inactive.
	Teardown() error
}
