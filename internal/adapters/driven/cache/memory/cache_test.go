package memory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/remsync/internal/core/domain"
)

func TestCache(t *testing.T) {
	ctx := context.Background()
	sep := string(filepath.Separator)

	state := domain.FileState{
		Path:     filepath.Join(sep, "ws", "main.go"),
		Size:     42,
		ModTime:  time.Now(),
		Checksum: "abc123",
		SyncedAt: time.Now(),
	}

	t.Run("put and get round-trip", func(t *testing.T) {
		c := NewCache()
		require.NoError(t, c.Put(ctx, state))

		got, err := c.Get(ctx, state.Path)
		require.NoError(t, err)
		assert.Equal(t, state.Checksum, got.Checksum)
		assert.Equal(t, state.Size, got.Size)
	})

	t.Run("get missing entry", func(t *testing.T) {
		c := NewCache()
		_, err := c.Get(ctx, state.Path)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("put replaces an existing entry", func(t *testing.T) {
		c := NewCache()
		require.NoError(t, c.Put(ctx, state))

		updated := state
		updated.Checksum = "def456"
		require.NoError(t, c.Put(ctx, updated))

		got, err := c.Get(ctx, state.Path)
		require.NoError(t, err)
		assert.Equal(t, "def456", got.Checksum)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("evict removes an entry", func(t *testing.T) {
		c := NewCache()
		require.NoError(t, c.Put(ctx, state))
		require.NoError(t, c.Evict(ctx, state.Path))

		_, err := c.Get(ctx, state.Path)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("evicting an absent path is a no-op", func(t *testing.T) {
		c := NewCache()
		assert.NoError(t, c.Evict(ctx, filepath.Join(sep, "ws", "gone.go")))
	})

	t.Run("evict prefix clears a subtree only", func(t *testing.T) {
		c := NewCache()
		inside := state
		inside.Path = filepath.Join(sep, "ws", "sub", "a.go")
		sibling := state
		sibling.Path = filepath.Join(sep, "ws", "subzero", "b.go")
		require.NoError(t, c.Put(ctx, inside))
		require.NoError(t, c.Put(ctx, sibling))

		require.NoError(t, c.EvictPrefix(ctx, filepath.Join(sep, "ws", "sub")))

		_, err := c.Get(ctx, inside.Path)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = c.Get(ctx, sibling.Path)
		assert.NoError(t, err, "prefix eviction must not match sibling directories by string prefix")
	})
}
