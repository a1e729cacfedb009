package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFiles(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	for _, rel := range []string{"b.hcl", "a.eq", "notes.txt", "nested/c.hcl"} {
		p := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x = 1"), 0o600))
	}

	// --- Act ---
	files, err := FindFiles([]string{dir, filepath.Join(dir, "b.hcl"), filepath.Join(dir, "missing")}, ".hcl", ".eq")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.eq"),
		filepath.Join(dir, "b.hcl"),
		filepath.Join(dir, "nested", "c.hcl"),
	}, files)
}

func TestFindFiles_PanicsWithoutExtensions(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFiles([]string{"."}) })
}

func TestHasExtension(t *testing.T) {
	assert.True(t, HasExtension("x/y.eq", ".hcl", ".eq"))
	assert.False(t, HasExtension("x/y.txt", ".hcl", ".eq"))
}
