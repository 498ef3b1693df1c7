package analysis

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/repodocs/internal/walker"
)

// writeRepo materialises files under a fresh temporary directory.
func writeRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	populate(t, root, files)
	return root
}

func populate(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func walk(t *testing.T, root string) []walker.FileDescriptor {
	t.Helper()
	files, err := walker.Walk(context.Background(), root, walker.Options{})
	require.NoError(t, err)
	return files
}

// descriptors builds an in-memory file list for extractors that never read
// file contents.
func descriptors(paths ...string) []walker.FileDescriptor {
	out := make([]walker.FileDescriptor, 0, len(paths))
	for _, p := range paths {
		out = append(out, walker.FileDescriptor{
			Name:      filepath.Base(p),
			RelPath:   p,
			Size:      10,
			Extension: walker.Extension(filepath.Base(p)),
		})
	}
	return out
}
