// Package terminal renders sync status on the controlling terminal:
// a coloured badge line, error reports, and the remote-explorer table.
package terminal

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/remsync/internal/core/domain"
	"github.com/custodia-labs/remsync/internal/core/ports/driven"
)

// Ensure Reporter implements the interface.
var _ driven.StatusReporter = (*Reporter)(nil)

// Reporter is a terminal implementation of driven.StatusReporter.
type Reporter struct {
	mu     sync.Mutex
	out    io.Writer
	ok     lipgloss.Style
	errSt  lipgloss.Style
	muted  lipgloss.Style
	header lipgloss.Style
	badge  domain.Badge
}

// NewReporter creates a reporter writing to stdout.
func NewReporter() *Reporter {
	return NewReporterTo(os.Stdout)
}

// NewReporterTo creates a reporter writing to w. Useful for testing.
func NewReporterTo(w io.Writer) *Reporter {
	return &Reporter{
		out:    w,
		ok:     lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")), // Green
		errSt:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")), // Red
		muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")), // Medium gray
		header: lipgloss.NewStyle().Bold(true),
	}
}

// SetBadge records and renders the current sync status.
func (r *Reporter) SetBadge(badge domain.Badge) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.badge == badge {
		return
	}
	r.badge = badge

	switch badge {
	case domain.BadgeOK:
		fmt.Fprintln(r.out, r.ok.Render("● remsync: ok"))
	case domain.BadgeError:
		fmt.Fprintln(r.out, r.errSt.Render("● remsync: error"))
	}
}

// Badge returns the last badge set. Useful for tests.
func (r *Reporter) Badge() domain.Badge {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.badge
}

// ReportError surfaces a recovered error.
func (r *Reporter) ReportError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, r.errSt.Render(fmt.Sprintf("remsync: %v", err)))
}

// RefreshExplorer re-renders the remote service table.
func (r *Reporter) RefreshExplorer(services []*domain.RemoteService) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.out, r.header.Render("Remote connections"))
	if len(services) == 0 {
		fmt.Fprintln(r.out, r.muted.Render("  (none)"))
		return
	}
	for _, svc := range services {
		fmt.Fprintf(r.out, "  %s  %s → %s [%s]\n",
			svc.Profile.Name, svc.LocalRoot, svc.Profile.Remote, svc.Profile.Backend)
	}
}
