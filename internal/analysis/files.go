package analysis

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ziadkadry99/repodocs/internal/walker"
)

// rootFiles indexes the regular files directly under the repository root
// by exact name.
func rootFiles(files []walker.FileDescriptor) map[string]walker.FileDescriptor {
	out := make(map[string]walker.FileDescriptor)
	for _, f := range files {
		if !f.IsDir && !strings.Contains(f.RelPath, "/") {
			out[f.Name] = f
		}
	}
	return out
}

func readFile(root, relPath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(root, filepath.FromSlash(relPath)))
}

// truncateRunes returns the first n characters of s and whether anything
// was cut. The cut is a plain prefix, not word-boundary aware.
func truncateRunes(s string, n int) (string, bool) {
	count := 0
	for i := range s {
		if count == n {
			return s[:i], true
		}
		count++
	}
	return s, false
}

// capped appends v to list unless the list already holds limit items.
func capped(list []string, v string, limit int) []string {
	if len(list) >= limit {
		return list
	}
	return append(list, v)
}
