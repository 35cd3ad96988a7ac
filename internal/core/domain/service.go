package domain

import (
	"path"
	"path/filepath"
	"strings"
	"time"
)

// RemoteService is a live binding between a connection profile and the
// remote store it addresses, scoped to one workspace. Services are
// created by the coordinator after a successful profile parse and
// disposed when their owning profile file is resaved.
type RemoteService struct {
	// ID is the unique identifier for the service.
	ID string

	// Workspace is the absolute path of the owning workspace root.
	Workspace string

	// LocalRoot is the absolute directory this service governs
	// (Workspace joined with the profile context).
	LocalRoot string

	// Profile is the connection profile the service was created from.
	// It is immutable for the lifetime of the service.
	Profile ConnectionProfile

	// CreatedAt is when the service was created.
	CreatedAt time.Time
}

// Config returns the service's effective connection profile.
func (s *RemoteService) Config() ConnectionProfile {
	return s.Profile
}

// Governs reports whether the service is responsible for the given
// absolute local path. Ignored paths are not governed.
func (s *RemoteService) Governs(localPath string) bool {
	rel, err := s.Rel(localPath)
	if err != nil {
		return false
	}
	return !s.ignored(rel)
}

// Rel returns the path relative to the service's local root.
// Paths outside the root yield ErrNoService.
func (s *RemoteService) Rel(localPath string) (string, error) {
	rel, err := filepath.Rel(s.LocalRoot, localPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrNoService
	}
	return filepath.ToSlash(rel), nil
}

// RemoteKey returns the remote location for a governed local path,
// using forward slashes regardless of platform.
func (s *RemoteService) RemoteKey(localPath string) (string, error) {
	rel, err := s.Rel(localPath)
	if err != nil {
		return "", err
	}
	return path.Join(s.Profile.Remote, rel), nil
}

// ignored matches a slash-separated relative path against the profile's
// ignore patterns. A pattern matches the whole relative path, any single
// path segment, or the base name.
func (s *RemoteService) ignored(rel string) bool {
	base := path.Base(rel)
	for _, pattern := range s.Profile.Ignore {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
		for _, segment := range strings.Split(rel, "/") {
			if ok, _ := path.Match(pattern, segment); ok {
				return true
			}
		}
	}
	return false
}
