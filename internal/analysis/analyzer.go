// Package analysis derives structured facts about a repository from its
// file tree: languages, frameworks, dependencies, entry points, notable
// files, README, API specs and size metrics.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/ziadkadry99/repodocs/internal/fetcher"
	"github.com/ziadkadry99/repodocs/internal/walker"
)

// DefaultWorkers is the size of the extractor task group.
const DefaultWorkers = 4

// Fetcher clones a repository into a scratch directory. A non-nil Scratch
// must be released by the caller even when an error is returned.
type Fetcher interface {
	Fetch(ctx context.Context, repoURL, branch string) (*fetcher.Scratch, error)
}

// Analyzer runs the fetch, walk and extract pipeline. It is safe for
// concurrent use: runs share nothing but the scratch root, in which each
// owns its own directory.
type Analyzer struct {
	fetcher  Fetcher
	maxDepth int
	exclude  []string
	workers  int
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithMaxDepth bounds the file walk.
func WithMaxDepth(d int) Option { return func(a *Analyzer) { a.maxDepth = d } }

// WithExclude adds doublestar patterns skipped by the walk.
func WithExclude(patterns []string) Option { return func(a *Analyzer) { a.exclude = patterns } }

// WithWorkers sets how many extractors run at once.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(a *Analyzer) { a.logger = l } }

// WithClock overrides the time source used for AnalyzedAt and events.
func WithClock(now func() time.Time) Option { return func(a *Analyzer) { a.now = now } }

// New creates an Analyzer that fetches through f.
func New(f Fetcher, opts ...Option) *Analyzer {
	a := &Analyzer{
		fetcher:  f,
		maxDepth: walker.DefaultMaxDepth,
		workers:  DefaultWorkers,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RunOption configures a single run.
type RunOption func(*run)

// WithObserver registers an observer for the run's state transitions.
func WithObserver(o Observer) RunOption {
	return func(r *run) { r.observers = append(r.observers, o) }
}

// run tracks the state of one analysis.
type run struct {
	repo      string
	url       string
	state     State
	observers []Observer
	logger    *slog.Logger
	now       func() time.Time
}

func (a *Analyzer) newRun(repo, url string, opts []RunOption) *run {
	r := &run{repo: repo, url: url, state: StateIdle, logger: a.logger, now: a.now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *run) transition(s State, err error) {
	if s != StateCleanedUp {
		r.state = s
	}
	ev := Event{Repo: r.repo, URL: r.url, State: s, At: r.now()}
	if err != nil {
		ev.Error = err.Error()
	}
	r.logger.Debug("analysis state", "repo", r.repo, "state", s)
	for _, o := range r.observers {
		o.OnEvent(ev)
	}
}

func (r *run) fail(s State, err error) error {
	failed := &AnalysisError{Repo: r.repo, State: r.state, Err: err}
	r.transition(s, err)
	return failed
}

// AnalyzeRepository clones repoURL at branch ("main" when empty), analyzes
// the checkout and removes it again. The scratch directory is released on
// every exit path, after all extractors have finished; release failures are
// logged, not returned. Every error is an *AnalysisError; clone failures
// also match ErrRepositoryUnavailable.
func (a *Analyzer) AnalyzeRepository(ctx context.Context, repoURL, branch string, opts ...RunOption) (*AnalysisResult, error) {
	repoURL = strings.TrimSpace(repoURL)
	if branch == "" {
		branch = fetcher.DefaultBranch
	}
	r := a.newRun(fetcher.RepoName(repoURL), repoURL, opts)
	if repoURL == "" {
		return nil, r.fail(StateAnalysisError, ErrInvalidRepoURL)
	}

	r.transition(StateFetching, nil)
	scratch, err := a.fetcher.Fetch(ctx, repoURL, branch)
	if scratch != nil {
		defer func() {
			rerr := scratch.Release()
			if rerr != nil {
				a.logger.Warn("scratch cleanup failed", "repo", r.repo, "path", scratch.Path, "error", rerr)
			}
			r.transition(StateCleanedUp, rerr)
		}()
	}
	if err != nil {
		return nil, r.fail(StateFetchError, err)
	}

	result, err := a.analyze(ctx, r, scratch.Path)
	if err != nil {
		return nil, err
	}
	result.Repository.URL = repoURL
	result.Repository.Branch = branch
	return result, nil
}

// AnalyzeDirectory analyzes an existing checkout at root without fetching
// or removing anything.
func (a *Analyzer) AnalyzeDirectory(ctx context.Context, name, root string, opts ...RunOption) (*AnalysisResult, error) {
	r := a.newRun(name, "", opts)
	info, err := os.Stat(root)
	if err != nil {
		return nil, r.fail(StateAnalysisError, err)
	}
	if !info.IsDir() {
		return nil, r.fail(StateAnalysisError, fmt.Errorf("%s is not a directory", root))
	}
	return a.analyze(ctx, r, root)
}

// analyze walks root and assembles the result. A panic outside the
// extractors is turned into an AnalysisError for the state it happened in.
func (a *Analyzer) analyze(ctx context.Context, r *run, root string) (result *AnalysisResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			result = nil
			err = r.fail(StateAnalysisError, fmt.Errorf("panic: %v", p))
		}
	}()

	r.transition(StateWalking, nil)
	files, err := walker.Walk(ctx, root, walker.Options{
		MaxDepth: a.maxDepth,
		Exclude:  a.exclude,
		Logger:   a.logger,
	})
	if err != nil {
		return nil, r.fail(StateAnalysisError, err)
	}

	r.transition(StateExtracting, nil)
	result = a.extract(r.repo, root, files)
	r.transition(StateAssembled, nil)
	return result, nil
}

// extract runs every extractor concurrently over the same file list. Each
// task writes only its own facet; a task that fails or panics leaves its
// facet at the "nothing found" value and records a warning.
func (a *Analyzer) extract(repo, root string, files []walker.FileDescriptor) *AnalysisResult {
	var (
		structure  string
		languages  []LanguageCount
		frameworks []string
		deps       = EmptyDependencies()
		readme     *Readme
		entry      []string
		configs    []string
		tests      []string
		docs       []string
		specs      []APISpec
		metrics    = Metrics{TotalFiles: len(files)}
	)

	var (
		mu       sync.Mutex
		warnings []string
	)
	warn := func(extractor string, err error) {
		a.logger.Warn("extractor degraded", "repo", repo, "extractor", extractor, "error", err)
		mu.Lock()
		warnings = append(warnings, fmt.Sprintf("%s: %v", extractor, err))
		mu.Unlock()
	}

	p := pool.New().WithMaxGoroutines(a.workers)
	task := func(extractor string, fn func() error) {
		p.Go(func() {
			defer func() {
				if rec := recover(); rec != nil {
					warn(extractor, fmt.Errorf("panic: %v", rec))
				}
			}()
			if err := fn(); err != nil {
				warn(extractor, err)
			}
		})
	}

	task("structure", func() error {
		structure = RenderStructure(repo, files)
		return nil
	})
	task("languages", func() error {
		languages = DetectLanguages(files)
		return nil
	})
	task("frameworks", func() error {
		found, err := DetectFrameworks(files, root)
		frameworks = found
		return err
	})
	task("dependencies", func() error {
		d, err := AnalyzeDependencies(files, root)
		if err != nil {
			return err
		}
		deps = d
		return nil
	})
	task("readme", func() error {
		rd, err := ReadReadme(files, root)
		if err != nil {
			return err
		}
		readme = rd
		return nil
	})
	task("entryPoints", func() error {
		entry = FindEntryPoints(files)
		return nil
	})
	task("configFiles", func() error {
		configs = FindConfigFiles(files)
		return nil
	})
	task("testFiles", func() error {
		tests = FindTestFiles(files)
		return nil
	})
	task("documentationFiles", func() error {
		docs = FindDocumentationFiles(files)
		return nil
	})
	task("apiSpecs", func() error {
		found, err := FindAPISpecs(files, root)
		specs = found
		return err
	})
	task("metrics", func() error {
		metrics = EstimateMetrics(files, root)
		return nil
	})
	p.Wait()

	sort.Strings(warnings)
	if structure == "" {
		structure = repo + "/\n"
	}

	return &AnalysisResult{
		Repository: RepositoryInfo{
			Name:       repo,
			AnalyzedAt: a.now().UTC(),
			TotalFiles: len(files),
		},
		Structure:          structure,
		Languages:          orEmpty(languages),
		Frameworks:         orEmpty(frameworks),
		Dependencies:       deps,
		Readme:             readme,
		EntryPoints:        orEmpty(entry),
		ConfigFiles:        orEmpty(configs),
		TestFiles:          orEmpty(tests),
		DocumentationFiles: orEmpty(docs),
		APISpecs:           orEmpty(specs),
		Metrics:            metrics,
		Warnings:           warnings,
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
