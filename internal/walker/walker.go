package walker

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
)

// DefaultMaxDepth bounds how many path segments below the root are emitted.
const DefaultMaxDepth = 6

// FileDescriptor is a single entry discovered during traversal.
type FileDescriptor struct {
	Name      string `json:"name"`
	RelPath   string `json:"relativePath"` // Slash-separated, relative to the root.
	IsDir     bool   `json:"isDirectory"`
	Size      int64  `json:"size"`
	Extension string `json:"extension"` // Lower-cased with leading dot; empty for directories.
}

// Options controls the behaviour of Walk.
type Options struct {
	MaxDepth int      // Entries deeper than this are not emitted (0 = use default).
	Exclude  []string // Extra doublestar patterns matched against the relative path.
	Logger   *slog.Logger
}

// Walk lists the tree rooted at root as a flat, lexically ordered sequence of
// descriptors. Parents are always emitted before their children and the root
// itself is not included. Unreadable entries are skipped with a warning and an
// inaccessible root yields an empty result. The only error returned is the
// context's, when it is cancelled mid-walk.
func Walk(ctx context.Context, root string, opts Options) ([]FileDescriptor, error) {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var files []FileDescriptor

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path != root {
				logger.Warn("walker: skipping unreadable entry", "path", path, "error", walkErr)
			}
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		name := d.Name()

		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if d.IsDir() {
			if shouldExcludeDir(name) || isHidden(name) || MatchesExclude(rel, opts.Exclude) {
				return filepath.SkipDir
			}
		} else {
			if !d.Type().IsRegular() || isHidden(name) || MatchesExclude(rel, opts.Exclude) {
				return nil
			}
		}

		depth := strings.Count(rel, "/") + 1
		if depth > maxDepth {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		fd := FileDescriptor{Name: name, RelPath: rel, IsDir: d.IsDir()}
		if !d.IsDir() {
			info, err := d.Info()
			if err != nil {
				logger.Warn("walker: skipping unreadable entry", "path", rel, "error", err)
				return nil
			}
			fd.Size = info.Size()
			fd.Extension = Extension(name)
		}
		files = append(files, fd)

		if d.IsDir() && depth == maxDepth {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// Extension returns the lower-cased suffix of name including the dot, or ""
// when there is none. A leading dot alone (".env") is not an extension.
func Extension(name string) string {
	trimmed := strings.TrimLeft(name, ".")
	ext := filepath.Ext(trimmed)
	return strings.ToLower(ext)
}
