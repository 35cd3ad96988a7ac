package terminal

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmer_Confirm(t *testing.T) {
	t.Run("affirmative answers", func(t *testing.T) {
		for _, input := range []string{"y\n", "Y\n", "yes\n", "YES\n", " y \n"} {
			var out bytes.Buffer
			c := NewConfirmerIO(strings.NewReader(input), &out)

			ok, err := c.Confirm(context.Background(), "Download main.go?")
			require.NoError(t, err)
			assert.True(t, ok, "input %q", input)
			assert.Contains(t, out.String(), "Download main.go?")
			assert.Contains(t, out.String(), "[y/N]")
		}
	})

	t.Run("anything else declines", func(t *testing.T) {
		for _, input := range []string{"n\n", "no\n", "\n", "maybe\n"} {
			var out bytes.Buffer
			c := NewConfirmerIO(strings.NewReader(input), &out)

			ok, err := c.Confirm(context.Background(), "Download?")
			require.NoError(t, err)
			assert.False(t, ok, "input %q", input)
		}
	})

	t.Run("non-interactive stdin declines without prompting", func(t *testing.T) {
		var out bytes.Buffer
		c := &Confirmer{in: strings.NewReader("y\n"), out: &out, interactive: false}

		ok, err := c.Confirm(context.Background(), "Download?")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, out.String())
	})

	t.Run("cancelled context aborts the prompt", func(t *testing.T) {
		var out bytes.Buffer
		// A reader that never delivers a line.
		blocked, _ := io.Pipe()
		c := NewConfirmerIO(blocked, &out)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		ok, err := c.Confirm(ctx, "Download?")
		assert.False(t, ok)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("answer without trailing newline still counts", func(t *testing.T) {
		var out bytes.Buffer
		c := NewConfirmerIO(strings.NewReader("y"), &out)

		ok, err := c.Confirm(context.Background(), "Download?")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
