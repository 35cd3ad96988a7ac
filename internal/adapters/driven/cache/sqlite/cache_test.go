package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/remsync/internal/core/domain"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	state := domain.FileState{
		Path:     filepath.Join(string(filepath.Separator), "ws", "main.go"),
		Size:     1024,
		ModTime:  time.Now().Truncate(time.Millisecond),
		Checksum: "abc123",
		SyncedAt: time.Now().Truncate(time.Millisecond),
	}
	require.NoError(t, c.Put(ctx, state))

	got, err := c.Get(ctx, state.Path)
	require.NoError(t, err)
	assert.Equal(t, state.Path, got.Path)
	assert.Equal(t, state.Size, got.Size)
	assert.Equal(t, state.Checksum, got.Checksum)
	assert.True(t, state.ModTime.Equal(got.ModTime))
	assert.True(t, state.SyncedAt.Equal(got.SyncedAt))
}

func TestCache_GetMissing(t *testing.T) {
	c := newTestCache(t)
	_, err := c.Get(context.Background(), "/ws/gone.go")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCache_PutUpserts(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	state := domain.FileState{Path: "/ws/a.go", Checksum: "old", ModTime: time.Now(), SyncedAt: time.Now()}
	require.NoError(t, c.Put(ctx, state))

	state.Checksum = "new"
	state.Size = 7
	require.NoError(t, c.Put(ctx, state))

	got, err := c.Get(ctx, state.Path)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Checksum)
	assert.Equal(t, int64(7), got.Size)
}

func TestCache_Evict(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	state := domain.FileState{Path: "/ws/a.go", ModTime: time.Now(), SyncedAt: time.Now()}
	require.NoError(t, c.Put(ctx, state))
	require.NoError(t, c.Evict(ctx, state.Path))

	_, err := c.Get(ctx, state.Path)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, c.Evict(ctx, "/ws/absent.go"))
}

func TestCache_EvictPrefix(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	sep := string(filepath.Separator)

	paths := []string{
		filepath.Join(sep, "ws", "sub", "a.go"),
		filepath.Join(sep, "ws", "sub", "deep", "b.go"),
		filepath.Join(sep, "ws", "subzero", "c.go"),
	}
	for _, p := range paths {
		require.NoError(t, c.Put(ctx, domain.FileState{Path: p, ModTime: time.Now(), SyncedAt: time.Now()}))
	}

	require.NoError(t, c.EvictPrefix(ctx, filepath.Join(sep, "ws", "sub")))

	_, err := c.Get(ctx, paths[0])
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = c.Get(ctx, paths[1])
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = c.Get(ctx, paths[2])
	assert.NoError(t, err)
}

func TestCache_EvictPrefixWildcards(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	sep := string(filepath.Separator)

	target := filepath.Join(sep, "ws", "a_b", "f.go")
	underscore := filepath.Join(sep, "ws", "axb", "f.go")
	percent := filepath.Join(sep, "ws", "a%b", "g.go")
	for _, p := range []string{target, underscore, percent} {
		require.NoError(t, c.Put(ctx, domain.FileState{Path: p, ModTime: time.Now(), SyncedAt: time.Now()}))
	}

	require.NoError(t, c.EvictPrefix(ctx, filepath.Join(sep, "ws", "a_b")))

	_, err := c.Get(ctx, target)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = c.Get(ctx, underscore)
	assert.NoError(t, err, "an underscore in the prefix must not act as a wildcard")

	require.NoError(t, c.EvictPrefix(ctx, filepath.Join(sep, "ws", "a%b")))
	_, err = c.Get(ctx, percent)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = c.Get(ctx, underscore)
	assert.NoError(t, err, "a percent in the prefix must not act as a wildcard")
}

func TestCache_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewCache(dir)
	require.NoError(t, err)
	state := domain.FileState{Path: "/ws/a.go", Checksum: "persist", ModTime: time.Now(), SyncedAt: time.Now()}
	require.NoError(t, first.Put(ctx, state))
	require.NoError(t, first.Close())

	second, err := NewCache(dir)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, state.Path)
	require.NoError(t, err)
	assert.Equal(t, "persist", got.Checksum)
}
