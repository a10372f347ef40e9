// Package testutils holds fixture helpers shared by tests across the
// module. Production code must not import it.
package testutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// TestContext returns a context whose logger writes through t, so log
// lines interleave with test output and vanish for passing tests.
func TestContext(t *testing.T) context.Context {
	t.Helper()
	logger := zerolog.New(zerolog.TestWriter{T: t}).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

// WriteCorpus materializes OCR pages under a fresh temp root and returns
// the root. Keys are slash-separated paths relative to the root.
func WriteCorpus(t *testing.T, pages map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range pages {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "creating corpus dir")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644), "writing corpus page")
	}
	return root
}

// WriteFile writes one file under dir and returns its full path.
func WriteFile(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "creating parent dir")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "writing file")
	return path
}
