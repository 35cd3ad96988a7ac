// Package tomlprofile parses workspace profile files (.remsync.toml)
// into connection profiles.
package tomlprofile

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/remsync/internal/core/domain"
	"github.com/custodia-labs/remsync/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.ProfileParser = (*Parser)(nil)

// Parser is a TOML implementation of driven.ProfileParser.
type Parser struct{}

// NewParser creates a profile file parser.
func NewParser() *Parser {
	return &Parser{}
}

// fileSchema is the on-disk shape of a profile file.
type fileSchema struct {
	Profile []profileSchema `toml:"profile"`
}

// profileSchema mirrors one [[profile]] table. DownloadOnOpen is
// decoded untyped because it accepts both a boolean and the string
// sentinel "confirm".
type profileSchema struct {
	Name           string            `toml:"name"`
	Context        string            `toml:"context"`
	Remote         string            `toml:"remote"`
	Backend        string            `toml:"backend"`
	Options        map[string]string `toml:"options"`
	UploadOnSave   bool              `toml:"uploadOnSave"`
	DownloadOnOpen any               `toml:"downloadOnOpen"`
	Ignore         []string          `toml:"ignore"`
}

// Parse reads the profile file and returns its profiles in file order.
func (p *Parser) Parse(_ context.Context, path string) ([]domain.ConnectionProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrConfigParse, path, err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrConfigParse, path, err)
	}
	if len(file.Profile) == 0 {
		return nil, fmt.Errorf("%w: %s declares no profiles", domain.ErrConfigParse, path)
	}

	profiles := make([]domain.ConnectionProfile, 0, len(file.Profile))
	for i, raw := range file.Profile {
		profile, err := raw.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: %s profile %d: %v", domain.ErrConfigParse, path, i+1, err)
		}
		if err := profile.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrConfigParse, path, err)
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// toDomain normalises a decoded table into a ConnectionProfile.
func (s *profileSchema) toDomain() (domain.ConnectionProfile, error) {
	mode, err := downloadMode(s.DownloadOnOpen)
	if err != nil {
		return domain.ConnectionProfile{}, err
	}

	backend := s.Backend
	if backend == "" {
		backend = string(domain.BackendLocalDir)
	}

	return domain.ConnectionProfile{
		Name:           s.Name,
		Context:        s.Context,
		Remote:         s.Remote,
		Backend:        domain.Backend(backend),
		Options:        s.Options,
		UploadOnSave:   s.UploadOnSave,
		DownloadOnOpen: mode,
		Ignore:         s.Ignore,
	}, nil
}

// downloadMode maps the untyped downloadOnOpen value onto the domain
// enum: absent or false disables, true always downloads, the string
// "confirm" asks first.
func downloadMode(v any) (domain.DownloadMode, error) {
	switch val := v.(type) {
	case nil:
		return domain.DownloadOff, nil
	case bool:
		if val {
			return domain.DownloadAlways, nil
		}
		return domain.DownloadOff, nil
	case string:
		if strings.EqualFold(val, string(domain.DownloadConfirm)) {
			return domain.DownloadConfirm, nil
		}
		return "", fmt.Errorf("downloadOnOpen accepts true, false or %q, got %q", domain.DownloadConfirm, val)
	default:
		return "", fmt.Errorf("downloadOnOpen accepts true, false or %q, got %T", domain.DownloadConfirm, v)
	}
}
