// Package domain defines the core business entities for remsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ConnectionProfile: A remote-connection profile parsed from .remsync.toml
//   - RemoteService: A live binding between a profile and a workspace
//   - WorkspaceSet: The open workspace roots and path resolution rules
//   - FileState: Cached remote metadata for a local file
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
