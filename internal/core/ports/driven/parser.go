package driven

import (
	"context"

	"github.com/custodia-labs/remsync/internal/core/domain"
)

// ProfileParser turns a profile file into connection profiles.
type ProfileParser interface {
	// Parse reads the file at path and returns its profiles in file
	// order. Malformed input yields an error wrapping
	// domain.ErrConfigParse.
	Parse(ctx context.Context, path string) ([]domain.ConnectionProfile, error)
}
