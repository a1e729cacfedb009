package testutil

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/equigrid/internal/ctxlog"
	"github.com/stretchr/testify/require"
)

// NewTestLogger returns a debug-level text logger writing into a SafeBuffer.
func NewTestLogger() (*slog.Logger, *SafeBuffer) {
	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, buf
}

// NewTestContext returns a context carrying a test logger, cancelled when the
// test ends, together with the buffer receiving the logs.
func NewTestContext(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()
	logger, buf := NewTestLogger()
	ctx, cancel := context.WithCancel(ctxlog.WithLogger(context.Background(), logger))
	t.Cleanup(cancel)
	return ctx, buf
}

// WriteFiles creates a temporary workspace holding files (relative path to
// content) and returns its root directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return root
}
