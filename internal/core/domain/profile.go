package domain

import (
	"fmt"
	"path"
	"strings"
)

// Backend identifies a transfer engine backend.
type Backend string

// Available backends.
const (
	// BackendLocalDir mirrors files into a destination directory.
	BackendLocalDir Backend = "localdir"

	// BackendS3 transfers files against an S3 bucket.
	BackendS3 Backend = "s3"
)

// IsValid returns true if the backend is recognised.
func (b Backend) IsValid() bool {
	switch b {
	case BackendLocalDir, BackendS3:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b Backend) String() string {
	return string(b)
}

// DownloadMode controls what happens when a governed file is opened.
type DownloadMode string

// Available download modes.
const (
	// DownloadOff disables download-on-open.
	DownloadOff DownloadMode = "off"

	// DownloadAlways downloads without asking.
	DownloadAlways DownloadMode = "always"

	// DownloadConfirm asks the user before downloading.
	DownloadConfirm DownloadMode = "confirm"
)

// IsValid returns true if the download mode is recognised.
func (m DownloadMode) IsValid() bool {
	switch m {
	case DownloadOff, DownloadAlways, DownloadConfirm:
		return true
	default:
		return false
	}
}

// Enabled returns true if opening a governed file may trigger a download.
func (m DownloadMode) Enabled() bool {
	return m == DownloadAlways || m == DownloadConfirm
}

// String returns the string representation.
func (m DownloadMode) String() string {
	return string(m)
}

// ConnectionProfile describes one remote connection for a workspace.
// Profiles are parsed from the workspace profile file and are immutable
// once a service has been created from them; a profile change disposes
// the old service and creates a new one.
type ConnectionProfile struct {
	// Name is the human-readable name for this connection.
	Name string

	// Context is the workspace-relative directory this profile governs.
	// Defaults to "." (the whole workspace).
	Context string

	// Remote is the root on the remote store (directory path or key prefix).
	Remote string

	// Backend selects the transfer engine.
	Backend Backend

	// Options contains backend-specific configuration (e.g. bucket, region).
	Options map[string]string

	// UploadOnSave uploads a governed file every time it is saved.
	UploadOnSave bool

	// DownloadOnOpen controls download behaviour when a governed file
	// is opened.
	DownloadOnOpen DownloadMode

	// Ignore lists glob patterns excluded from sync, matched against
	// the context-relative path and the base name.
	Ignore []string
}

// Validate checks the profile for structural problems.
func (p *ConnectionProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if p.Remote == "" {
		return fmt.Errorf("%w: remote is required for %q", ErrInvalidProfile, p.Name)
	}
	if !p.Backend.IsValid() {
		return fmt.Errorf("%w: unknown backend %q for %q", ErrInvalidProfile, p.Backend, p.Name)
	}
	if p.DownloadOnOpen != "" && !p.DownloadOnOpen.IsValid() {
		return fmt.Errorf("%w: unknown downloadOnOpen %q for %q", ErrInvalidProfile, p.DownloadOnOpen, p.Name)
	}
	if strings.HasPrefix(p.Context, "..") || path.IsAbs(p.Context) {
		return fmt.Errorf("%w: context must stay inside the workspace for %q", ErrInvalidProfile, p.Name)
	}
	for _, pattern := range p.Ignore {
		if _, err := path.Match(pattern, ""); err != nil {
			return fmt.Errorf("%w: bad ignore pattern %q for %q", ErrInvalidProfile, pattern, p.Name)
		}
	}
	return nil
}

// Option returns a backend option value, or the empty string.
func (p *ConnectionProfile) Option(key string) string {
	if p.Options == nil {
		return ""
	}
	return p.Options[key]
}
