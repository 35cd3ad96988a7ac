// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the coordinator to function:
//
//   - ProfileParser: Turns a profile file into connection profiles
//   - ServiceRegistry: Creates, looks up and disposes remote services
//   - TransferEngine: Uploads and downloads file content
//   - MetadataCache: Remote file-state cache, evicted on save
//   - WatcherFactory: Filesystem save and profile-change watchers
//   - EventSource: Editor document open/save events
//   - StatusReporter: User-visible sync status
//
// # Optional Interfaces
//
// These can be nil - the coordinator degrades gracefully:
//
//   - Confirmer: Download confirmation prompt. Without it,
//     downloadOnOpen = "confirm" always declines.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
