package terminal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/remsync/internal/core/domain"
)

func TestReporter_SetBadge(t *testing.T) {
	t.Run("renders badge changes", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewReporterTo(&buf)

		r.SetBadge(domain.BadgeOK)
		assert.Contains(t, buf.String(), "remsync: ok")
		assert.Equal(t, domain.BadgeOK, r.Badge())

		r.SetBadge(domain.BadgeError)
		assert.Contains(t, buf.String(), "remsync: error")
		assert.Equal(t, domain.BadgeError, r.Badge())
	})

	t.Run("deduplicates repeated badges", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewReporterTo(&buf)

		r.SetBadge(domain.BadgeOK)
		once := buf.Len()
		r.SetBadge(domain.BadgeOK)
		assert.Equal(t, once, buf.Len())
	})
}

func TestReporter_ReportError(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporterTo(&buf)

	r.ReportError(domain.ErrConfigParse)
	assert.Contains(t, buf.String(), domain.ErrConfigParse.Error())
}

func TestReporter_RefreshExplorer(t *testing.T) {
	t.Run("empty service list", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewReporterTo(&buf)

		r.RefreshExplorer(nil)
		out := buf.String()
		assert.Contains(t, out, "Remote connections")
		assert.Contains(t, out, "(none)")
	})

	t.Run("lists every service", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewReporterTo(&buf)

		r.RefreshExplorer([]*domain.RemoteService{
			{
				LocalRoot: "/ws/web",
				Profile: domain.ConnectionProfile{
					Name:    "staging",
					Remote:  "deploy/staging",
					Backend: domain.BackendS3,
				},
			},
		})

		out := buf.String()
		require.Contains(t, out, "staging")
		assert.Contains(t, out, "/ws/web")
		assert.Contains(t, out, "deploy/staging")
		assert.Contains(t, out, "s3")
	})
}
