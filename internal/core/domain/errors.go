package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoService indicates no registered service governs a file path.
	// Events on such files are ignored, not treated as failures.
	ErrNoService = errors.New("no service governs path")

	// ErrOutOfWorkspace indicates a path is outside every open workspace root.
	ErrOutOfWorkspace = errors.New("path outside workspace")

	// ErrInvalidProfile indicates a connection profile failed validation.
	ErrInvalidProfile = errors.New("invalid connection profile")

	// ErrConfigParse indicates a profile file could not be parsed.
	// The affected workspace is left with zero services until the
	// file is fixed and saved again.
	ErrConfigParse = errors.New("profile file parse failed")

	// ErrTransfer indicates an upload or download failed.
	// Transfer failures are terminal for the triggering event; the
	// coordinator never retries.
	ErrTransfer = errors.New("transfer failed")

	// ErrUnsupportedBackend indicates an unknown transfer backend type.
	ErrUnsupportedBackend = errors.New("unsupported backend")
)
