// Package fetcher clones remote repositories into disposable scratch
// directories and removes them again.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultBranch is cloned when the caller does not name one.
const DefaultBranch = "main"

// DefaultTimeout bounds a single clone.
const DefaultTimeout = 60 * time.Second

// Fetcher clones repositories under a shared scratch root. Each call gets its
// own uniquely named directory, so concurrent fetches never collide.
type Fetcher struct {
	root     string
	timeout  time.Duration
	executor CommandExecutor
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithExecutor replaces the command executor (used by tests).
func WithExecutor(e CommandExecutor) Option {
	return func(f *Fetcher) { f.executor = e }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// New creates a Fetcher rooted at root. An empty root uses a directory under
// os.TempDir and a non-positive timeout uses DefaultTimeout.
func New(root string, timeout time.Duration, opts ...Option) *Fetcher {
	if root == "" {
		root = filepath.Join(os.TempDir(), "repodocs-scratch")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	f := &Fetcher{
		root:     root,
		timeout:  timeout,
		executor: &DefaultExecutor{},
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Root returns the scratch root directory.
func (f *Fetcher) Root() string { return f.root }

// Fetch performs a shallow clone of repoURL at branch. Whenever a scratch
// directory was created the returned Scratch is non-nil, even alongside an
// error, and the caller must Release it.
func (f *Fetcher) Fetch(ctx context.Context, repoURL, branch string) (*Scratch, error) {
	repoURL = strings.TrimSpace(repoURL)
	if repoURL == "" {
		return nil, ErrInvalidRepoURL
	}
	if branch == "" {
		branch = DefaultBranch
	}

	if err := os.MkdirAll(f.root, 0o755); err != nil {
		return nil, &FetchError{Kind: FetchFailed, URL: repoURL, Branch: branch, Err: fmt.Errorf("create scratch root: %w", err)}
	}

	name := fmt.Sprintf("%s-%d-%s", sanitize(RepoName(repoURL)), f.now().UnixNano(), uuid.NewString()[:8])
	dir := filepath.Join(f.root, name)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, &FetchError{Kind: FetchFailed, URL: repoURL, Branch: branch, Err: fmt.Errorf("create scratch dir: %w", err)}
	}
	scratch := &Scratch{Path: dir, logger: f.logger}

	cloneCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	f.logger.Debug("cloning repository", "url", repoURL, "branch", branch, "dir", dir)
	start := time.Now()
	if _, err := f.executor.Run(cloneCtx, "", "git", cloneArgs(repoURL, branch, dir)...); err != nil {
		kind := FetchFailed
		if errors.Is(cloneCtx.Err(), context.DeadlineExceeded) {
			kind = FetchTimeout
			err = fmt.Errorf("exceeded %s: %w", f.timeout, err)
		}
		return scratch, &FetchError{Kind: kind, URL: repoURL, Branch: branch, Err: err}
	}
	f.logger.Debug("clone complete", "url", repoURL, "duration", time.Since(start))

	return scratch, nil
}

// Sweep removes scratch directories last modified before olderThan ago. It
// cleans up after runs that died before releasing their directory.
func (f *Fetcher) Sweep(olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read scratch root: %w", err)
	}

	cutoff := f.now().Add(-olderThan)
	removed := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(f.root, e.Name())
		if err := os.RemoveAll(path); err != nil {
			f.logger.Warn("sweep: failed to remove stale scratch dir", "path", path, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// Scratch is a disposable directory holding one clone.
type Scratch struct {
	Path string

	logger *slog.Logger
	once   sync.Once
	err    error
}

// Release removes the scratch directory. The removal runs once; later calls
// return the first result.
func (s *Scratch) Release() error {
	s.once.Do(func() {
		s.err = os.RemoveAll(s.Path)
		if s.err != nil && s.logger != nil {
			s.logger.Warn("failed to remove scratch dir", "path", s.Path, "error", s.err)
		}
	})
	return s.err
}
