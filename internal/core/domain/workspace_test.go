package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsProfilePath(t *testing.T) {
	assert.True(t, IsProfilePath(filepath.Join("/", "ws", ProfileFileName)))
	assert.True(t, IsProfilePath(filepath.Join("/", "ws", "deep", "nested", ProfileFileName)))
	assert.False(t, IsProfilePath(filepath.Join("/", "ws", "remsync.toml")))
	assert.False(t, IsProfilePath(filepath.Join("/", "ws", "main.go")))
}

func TestNewWorkspaceSet(t *testing.T) {
	t.Run("requires at least one root", func(t *testing.T) {
		_, err := NewWorkspaceSet()
		assert.Error(t, err)
	})

	t.Run("rejects missing directories", func(t *testing.T) {
		_, err := NewWorkspaceSet(filepath.Join(t.TempDir(), "gone"))
		assert.Error(t, err)
	})

	t.Run("rejects plain files", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
		_, err := NewWorkspaceSet(file)
		assert.Error(t, err)
	})

	t.Run("absolutises roots", func(t *testing.T) {
		dir := t.TempDir()
		ws, err := NewWorkspaceSet(dir)
		require.NoError(t, err)
		for _, root := range ws.Roots() {
			assert.True(t, filepath.IsAbs(root))
		}
	})
}

func TestWorkspaceSet_Resolve(t *testing.T) {
	outer := t.TempDir()
	inner := filepath.Join(outer, "inner")
	require.NoError(t, os.Mkdir(inner, 0o755))
	other := t.TempDir()

	ws, err := NewWorkspaceSet(outer, inner, other)
	require.NoError(t, err)

	t.Run("path inside a single root", func(t *testing.T) {
		root, ok := ws.Resolve(filepath.Join(other, "a.txt"))
		require.True(t, ok)
		assert.Equal(t, other, root)
	})

	t.Run("most specific root wins when roots nest", func(t *testing.T) {
		root, ok := ws.Resolve(filepath.Join(inner, "b.txt"))
		require.True(t, ok)
		assert.Equal(t, inner, root)
	})

	t.Run("the root itself resolves", func(t *testing.T) {
		root, ok := ws.Resolve(outer)
		require.True(t, ok)
		assert.Equal(t, outer, root)
	})

	t.Run("outside every root", func(t *testing.T) {
		_, ok := ws.Resolve(filepath.Join(string(filepath.Separator), "nowhere", "c.txt"))
		assert.False(t, ok)
		assert.False(t, ws.Contains(filepath.Join(string(filepath.Separator), "nowhere", "c.txt")))
	})

	t.Run("sibling with a shared prefix is not inside", func(t *testing.T) {
		assert.False(t, ws.Contains(outer+"-backup"))
	})
}

func TestIsValidFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(file, []byte("package main"), 0o644))

	t.Run("regular existing file", func(t *testing.T) {
		assert.True(t, IsValidFile(file))
	})

	t.Run("relative path", func(t *testing.T) {
		assert.False(t, IsValidFile("main.go"))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.False(t, IsValidFile(filepath.Join(dir, "gone.go")))
	})

	t.Run("directory", func(t *testing.T) {
		assert.False(t, IsValidFile(dir))
	})

	t.Run("ephemeral editor artefacts", func(t *testing.T) {
		for _, name := range []string{"main.go~", ".main.go.swp", ".main.go.swo", "main.go.tmp", "#main.go#"} {
			p := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
			assert.False(t, IsValidFile(p), "expected %s to be rejected", name)
		}
	})
}
