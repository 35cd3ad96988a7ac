// Package terminal asks download confirmations on the controlling
// terminal. When stdin is not a terminal the prompt auto-declines, so
// an unattended daemon never downloads files that need confirmation.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/custodia-labs/remsync/internal/core/ports/driven"
)

// Ensure Confirmer implements the interface.
var _ driven.Confirmer = (*Confirmer)(nil)

// Confirmer is a terminal implementation of driven.Confirmer.
type Confirmer struct {
	mu          sync.Mutex
	in          io.Reader
	out         io.Writer
	interactive bool
}

// NewConfirmer creates a confirmer over stdin/stdout.
func NewConfirmer() *Confirmer {
	return &Confirmer{
		in:          os.Stdin,
		out:         os.Stdout,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
}

// NewConfirmerIO creates a confirmer over explicit streams, treated as
// interactive. Useful for testing.
func NewConfirmerIO(in io.Reader, out io.Writer) *Confirmer {
	return &Confirmer{in: in, out: out, interactive: true}
}

// Confirm prompts y/N and returns true for an affirmative answer.
// A non-interactive stdin declines without prompting.
func (c *Confirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if !c.interactive {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.out, "%s [y/N] ", prompt)

	type answer struct {
		text string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := bufio.NewReader(c.in).ReadString('\n')
		ch <- answer{text: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case a := <-ch:
		if a.err != nil && a.text == "" {
			return false, a.err
		}
		reply := strings.ToLower(strings.TrimSpace(a.text))
		return reply == "y" || reply == "yes", nil
	}
}
