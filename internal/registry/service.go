package registry

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ziadkadry99/repodocs/internal/analysis"
	"github.com/ziadkadry99/repodocs/internal/docgen"
	"github.com/ziadkadry99/repodocs/internal/events"
	"github.com/ziadkadry99/repodocs/internal/fetcher"
	"github.com/ziadkadry99/repodocs/internal/search"
)

// Analyzer runs repository analyses.
type Analyzer interface {
	AnalyzeRepository(ctx context.Context, repoURL, branch string, opts ...analysis.RunOption) (*analysis.AnalysisResult, error)
}

// Generator turns analyses into documents.
type Generator interface {
	Generate(ctx context.Context, result *analysis.AnalysisResult) (*docgen.Document, error)
}

// SearchIndex indexes generated documents.
type SearchIndex interface {
	IndexDocument(ctx context.Context, repoID, repoName, markdown string) (int, error)
	DeleteRepo(ctx context.Context, repoID string) error
	Search(ctx context.Context, query string, limit int) ([]search.Result, error)
}

// Service ties the store to the analyzer, the generator and the optional
// search index. Each step is persisted as it completes.
type Service struct {
	store     *Store
	analyzer  Analyzer
	generator Generator
	hub       *events.Hub
	index     SearchIndex
	logger    *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithHub publishes analysis events of registered repositories to h.
func WithHub(h *events.Hub) ServiceOption { return func(s *Service) { s.hub = h } }

// WithSearchIndex indexes every generated document in x.
func WithSearchIndex(x SearchIndex) ServiceOption { return func(s *Service) { s.index = x } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ServiceOption { return func(s *Service) { s.logger = l } }

// NewService creates a Service.
func NewService(store *Store, a Analyzer, g Generator, opts ...ServiceOption) *Service {
	s := &Service{store: store, analyzer: a, generator: g, logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Store returns the underlying store.
func (s *Service) Store() *Store { return s.store }

// Hub returns the event hub, which may be nil.
func (s *Service) Hub() *events.Hub { return s.hub }

// Index returns the search index, which may be nil.
func (s *Service) Index() SearchIndex { return s.index }

// Register adds url at branch ("main" when empty). An empty name is
// derived from the url.
func (s *Service) Register(ctx context.Context, url, branch, name string) (*Repository, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, analysis.ErrInvalidRepoURL
	}
	if branch == "" {
		branch = fetcher.DefaultBranch
	}
	if name == "" {
		name = fetcher.RepoName(url)
	}
	repo := &Repository{Name: name, URL: url, Branch: branch}
	if err := s.store.Create(ctx, repo); err != nil {
		return nil, err
	}
	return repo, nil
}

// Ensure returns the registration of url at branch, creating it if needed.
func (s *Service) Ensure(ctx context.Context, url, branch string) (*Repository, error) {
	repo, err := s.Register(ctx, url, branch, "")
	if !errors.Is(err, ErrDuplicate) {
		return repo, err
	}
	if branch == "" {
		branch = fetcher.DefaultBranch
	}
	repo, err = s.store.FindByURL(ctx, strings.TrimSpace(url), branch)
	if err == nil && repo == nil {
		err = ErrNotFound
	}
	return repo, err
}

// Analyze runs an analysis of repo and stores the outcome: the result on
// success, the error kind and message on failure.
func (s *Service) Analyze(ctx context.Context, repo *Repository) (*analysis.AnalysisResult, error) {
	if err := s.store.MarkAnalyzing(ctx, repo.ID); err != nil {
		return nil, err
	}

	var opts []analysis.RunOption
	if s.hub != nil {
		opts = append(opts, analysis.WithObserver(s.hub.Observer(repo.ID)))
	}
	result, err := s.analyzer.AnalyzeRepository(ctx, repo.URL, repo.Branch, opts...)
	if err != nil {
		s.markFailed(ctx, repo.ID, analysis.ErrorKind(err), err)
		return nil, err
	}

	if err := s.store.SaveAnalysis(ctx, repo.ID, result); err != nil {
		s.markFailed(ctx, repo.ID, analysis.KindAnalysisError, err)
		return nil, err
	}
	s.logger.Info("analysis stored", "repo_id", repo.ID, "repo", repo.Name, "files", result.Repository.TotalFiles)
	return result, nil
}

// markFailed moves repo out of the analyzing state. The request context may
// be gone, so the write runs detached from its cancellation.
func (s *Service) markFailed(ctx context.Context, id, kind string, cause error) {
	if err := s.store.MarkFailed(context.WithoutCancel(ctx), id, kind, cause.Error()); err != nil {
		s.logger.Error("recording analysis failure", "repo_id", id, "error", err)
	}
}

// Generate analyzes repo, generates documentation and stores it.
func (s *Service) Generate(ctx context.Context, repo *Repository) (*StoredDocument, error) {
	result, err := s.Analyze(ctx, repo)
	if err != nil {
		return nil, err
	}
	doc, err := s.generator.Generate(ctx, result)
	if err != nil {
		return nil, err
	}
	stored, err := s.store.SaveDocument(ctx, repo.ID, doc)
	if err != nil {
		return nil, err
	}

	if s.index != nil {
		n, err := s.index.IndexDocument(ctx, repo.ID, repo.Name, doc.Markdown)
		if err != nil {
			s.logger.Warn("indexing document failed", "repo_id", repo.ID, "error", err)
		} else {
			s.logger.Debug("document indexed", "repo_id", repo.ID, "sections", n)
		}
	}
	return stored, nil
}

// AnalyzeURL runs an unregistered analysis. Nothing is stored.
func (s *Service) AnalyzeURL(ctx context.Context, url, branch string) (*analysis.AnalysisResult, error) {
	return s.analyzer.AnalyzeRepository(ctx, url, branch)
}

// GenerateURL analyzes and documents an unregistered repository.
func (s *Service) GenerateURL(ctx context.Context, url, branch string) (*docgen.Document, error) {
	result, err := s.analyzer.AnalyzeRepository(ctx, url, branch)
	if err != nil {
		return nil, err
	}
	return s.generator.Generate(ctx, result)
}

// Remove deletes repo id from the store and the search index.
func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if s.index != nil {
		if err := s.index.DeleteRepo(ctx, id); err != nil {
			s.logger.Warn("removing document from index failed", "repo_id", id, "error", err)
		}
	}
	return nil
}
