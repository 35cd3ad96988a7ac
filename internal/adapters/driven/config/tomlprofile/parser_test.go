package tomlprofile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/remsync/internal/core/domain"
)

func writeProfileFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), domain.ProfileFileName)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestParser_Parse(t *testing.T) {
	parser := NewParser()

	t.Run("full profile file", func(t *testing.T) {
		path := writeProfileFile(t, `
[[profile]]
name = "staging"
context = "web"
remote = "deploy/staging"
backend = "s3"
uploadOnSave = true
downloadOnOpen = true
ignore = ["*.log", "node_modules"]

[profile.options]
bucket = "assets"
region = "eu-central-1"

[[profile]]
name = "docs"
remote = "deploy/docs"
downloadOnOpen = "confirm"
`)

		profiles, err := parser.Parse(context.Background(), path)
		require.NoError(t, err)
		require.Len(t, profiles, 2)

		staging := profiles[0]
		assert.Equal(t, "staging", staging.Name)
		assert.Equal(t, "web", staging.Context)
		assert.Equal(t, domain.BackendS3, staging.Backend)
		assert.True(t, staging.UploadOnSave)
		assert.Equal(t, domain.DownloadAlways, staging.DownloadOnOpen)
		assert.Equal(t, "assets", staging.Option("bucket"))
		assert.Equal(t, []string{"*.log", "node_modules"}, staging.Ignore)

		docs := profiles[1]
		assert.Equal(t, domain.BackendLocalDir, docs.Backend, "backend defaults to localdir")
		assert.False(t, docs.UploadOnSave)
		assert.Equal(t, domain.DownloadConfirm, docs.DownloadOnOpen)
	})

	t.Run("downloadOnOpen forms", func(t *testing.T) {
		cases := []struct {
			name  string
			value string
			want  domain.DownloadMode
		}{
			{"absent", "", domain.DownloadOff},
			{"false", `downloadOnOpen = false`, domain.DownloadOff},
			{"true", `downloadOnOpen = true`, domain.DownloadAlways},
			{"confirm", `downloadOnOpen = "confirm"`, domain.DownloadConfirm},
			{"confirm mixed case", `downloadOnOpen = "Confirm"`, domain.DownloadConfirm},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				path := writeProfileFile(t, `
[[profile]]
name = "p"
remote = "r"
`+tc.value+"\n")
				profiles, err := parser.Parse(context.Background(), path)
				require.NoError(t, err)
				require.Len(t, profiles, 1)
				assert.Equal(t, tc.want, profiles[0].DownloadOnOpen)
			})
		}
	})

	t.Run("unknown downloadOnOpen string is rejected", func(t *testing.T) {
		path := writeProfileFile(t, `
[[profile]]
name = "p"
remote = "r"
downloadOnOpen = "sometimes"
`)
		_, err := parser.Parse(context.Background(), path)
		assert.ErrorIs(t, err, domain.ErrConfigParse)
	})

	t.Run("unsupported downloadOnOpen type is rejected", func(t *testing.T) {
		path := writeProfileFile(t, `
[[profile]]
name = "p"
remote = "r"
downloadOnOpen = 3
`)
		_, err := parser.Parse(context.Background(), path)
		assert.ErrorIs(t, err, domain.ErrConfigParse)
	})

	t.Run("malformed TOML", func(t *testing.T) {
		path := writeProfileFile(t, `[[profile]`)
		_, err := parser.Parse(context.Background(), path)
		assert.ErrorIs(t, err, domain.ErrConfigParse)
	})

	t.Run("empty profile list", func(t *testing.T) {
		path := writeProfileFile(t, `# nothing here`)
		_, err := parser.Parse(context.Background(), path)
		assert.ErrorIs(t, err, domain.ErrConfigParse)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := parser.Parse(context.Background(), filepath.Join(t.TempDir(), "gone.toml"))
		assert.ErrorIs(t, err, domain.ErrConfigParse)
	})

	t.Run("profile validation failure surfaces as a parse error", func(t *testing.T) {
		path := writeProfileFile(t, `
[[profile]]
name = "p"
remote = "r"
backend = "ftp"
`)
		_, err := parser.Parse(context.Background(), path)
		assert.ErrorIs(t, err, domain.ErrConfigParse)
	})

	t.Run("one bad profile fails the whole file", func(t *testing.T) {
		path := writeProfileFile(t, `
[[profile]]
name = "good"
remote = "r"

[[profile]]
name = ""
remote = "r"
`)
		_, err := parser.Parse(context.Background(), path)
		assert.ErrorIs(t, err, domain.ErrConfigParse)
	})
}
