package domain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ProfileFileName is the well-known file defining remote connection
// profiles for a workspace. It is recognised at any directory depth
// inside a workspace root.
const ProfileFileName = ".remsync.toml"

// IsProfilePath reports whether a path names a profile file.
func IsProfilePath(p string) bool {
	return filepath.Base(p) == ProfileFileName
}

// WorkspaceSet holds the open workspace roots. Roots are absolute and
// fixed for the lifetime of the set.
type WorkspaceSet struct {
	roots []string
}

// NewWorkspaceSet builds a workspace set from one or more root
// directories. Each root must exist and be a directory.
func NewWorkspaceSet(roots ...string) (*WorkspaceSet, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: no workspace roots", ErrInvalidProfile)
	}
	abs := make([]string, 0, len(roots))
	for _, root := range roots {
		a, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolve workspace root %q: %w", root, err)
		}
		info, err := os.Stat(a)
		if err != nil {
			return nil, fmt.Errorf("stat workspace root %q: %w", root, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("workspace root %q is not a directory", root)
		}
		abs = append(abs, a)
	}
	return &WorkspaceSet{roots: abs}, nil
}

// Roots returns the workspace roots.
func (w *WorkspaceSet) Roots() []string {
	out := make([]string, len(w.roots))
	copy(out, w.roots)
	return out
}

// Resolve returns the workspace root owning the given absolute path.
// When roots nest, the most specific (longest) root wins.
func (w *WorkspaceSet) Resolve(p string) (string, bool) {
	var best string
	for _, root := range w.roots {
		if p == root || strings.HasPrefix(p, root+string(filepath.Separator)) {
			if len(root) > len(best) {
				best = root
			}
		}
	}
	return best, best != ""
}

// Contains reports whether the path is inside any workspace root.
func (w *WorkspaceSet) Contains(p string) bool {
	_, ok := w.Resolve(p)
	return ok
}

// ephemeralSuffixes covers editor swap and backup files that must never
// trigger sync actions.
var ephemeralSuffixes = []string{"~", ".swp", ".swo", ".tmp"}

// IsValidFile reports whether a path addresses a real, syncable file:
// absolute, existing, a regular file, and not an ephemeral editor
// artefact.
func IsValidFile(p string) bool {
	if !filepath.IsAbs(p) {
		return false
	}
	base := filepath.Base(p)
	for _, suffix := range ephemeralSuffixes {
		if strings.HasSuffix(base, suffix) {
			return false
		}
	}
	if strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return false
	}
	info, err := os.Stat(p)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
