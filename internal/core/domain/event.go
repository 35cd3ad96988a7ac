package domain

import "time"

// EventKind classifies a document event.
type EventKind string

// Document event kinds.
const (
	// EventOpen signals that a document was opened.
	EventOpen EventKind = "open"

	// EventSave signals that a document was saved.
	EventSave EventKind = "save"
)

// IsValid returns true if the event kind is recognised.
func (k EventKind) IsValid() bool {
	return k == EventOpen || k == EventSave
}

// DocumentEvent is a single open or save notification for a local file.
type DocumentEvent struct {
	// Kind is the event classification.
	Kind EventKind

	// Path is the absolute local file path.
	Path string
}

// Badge is the sync status shown to the user.
type Badge string

// Badge values.
const (
	// BadgeOK indicates the last sync action succeeded.
	BadgeOK Badge = "ok"

	// BadgeError indicates the last sync action failed.
	BadgeError Badge = "error"
)

// FileState is cached remote metadata for a local file, keyed by the
// absolute local path. Entries are evicted on every save so no stale
// metadata survives a write.
type FileState struct {
	// Path is the absolute local file path.
	Path string

	// Size is the file size at last sync, in bytes.
	Size int64

	// ModTime is the local modification time at last sync.
	ModTime time.Time

	// Checksum is the SHA-256 of the transferred content, hex-encoded.
	Checksum string

	// SyncedAt is when the last transfer for this path completed.
	SyncedAt time.Time
}
