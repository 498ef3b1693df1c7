package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ziadkadry99/repodocs/internal/analysis"
	"github.com/ziadkadry99/repodocs/internal/db"
	"github.com/ziadkadry99/repodocs/internal/docgen"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return NewStore(d)
}

func sampleResult(name string, files int) *analysis.AnalysisResult {
	return &analysis.AnalysisResult{
		Repository:   analysis.RepositoryInfo{Name: name, TotalFiles: files},
		Languages:    []analysis.LanguageCount{{Language: "Go", FileCount: files}},
		Frameworks:   []string{},
		Dependencies: analysis.EmptyDependencies(),
	}
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	repo := &Repository{Name: "shop", URL: "https://example.com/shop.git", Branch: "main"}
	if err := s.Create(ctx, repo); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if repo.ID == "" || repo.Status != StatusPending {
		t.Fatalf("Create did not fill defaults: %+v", repo)
	}

	got, err := s.Get(ctx, repo.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Name != "shop" || got.URL != repo.URL || got.Branch != "main" {
		t.Fatalf("Get = %+v", got)
	}
	if got.AnalyzedAt != nil {
		t.Errorf("AnalyzedAt = %v before any analysis", got.AnalyzedAt)
	}

	missing, err := s.Get(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("Get(missing) = %v, %v", missing, err)
	}
}

func TestCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Create(ctx, &Repository{Name: "a", URL: "u", Branch: "main"}); err != nil {
		t.Fatal(err)
	}
	err := s.Create(ctx, &Repository{Name: "b", URL: "u", Branch: "main"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := s.Create(ctx, &Repository{Name: "a", URL: "u", Branch: "dev"}); err != nil {
		t.Fatalf("other branch: %v", err)
	}
}

func TestListOrdered(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	empty, err := s.List(ctx)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("List on empty store = %v, %v", empty, err)
	}

	for _, n := range []string{"zeta", "alpha", "mid"} {
		if err := s.Create(ctx, &Repository{Name: n, URL: n, Branch: "main"}); err != nil {
			t.Fatal(err)
		}
	}
	repos, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(repos) != 3 || repos[0].Name != "alpha" || repos[2].Name != "zeta" {
		t.Errorf("unexpected order: %+v", repos)
	}
}

func TestAnalysisLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := &Repository{Name: "shop", URL: "u", Branch: "main"}
	s.Create(ctx, repo)

	if err := s.MarkAnalyzing(ctx, repo.ID); err != nil {
		t.Fatalf("MarkAnalyzing: %v", err)
	}
	got, _ := s.Get(ctx, repo.ID)
	if got.Status != StatusAnalyzing {
		t.Errorf("Status = %q", got.Status)
	}

	if err := s.MarkFailed(ctx, repo.ID, analysis.KindRepositoryUnavailable, "clone failed"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	got, _ = s.Get(ctx, repo.ID)
	if got.Status != StatusError || got.ErrorKind != analysis.KindRepositoryUnavailable || got.LastError != "clone failed" {
		t.Errorf("after failure: %+v", got)
	}

	if err := s.SaveAnalysis(ctx, repo.ID, sampleResult("shop", 7)); err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}
	got, _ = s.Get(ctx, repo.ID)
	if got.Status != StatusReady || got.FileCount != 7 || got.AnalyzedAt == nil || got.LastError != "" || got.ErrorKind != "" {
		t.Errorf("after success: %+v", got)
	}

	// A second save replaces the stored analysis.
	if err := s.SaveAnalysis(ctx, repo.ID, sampleResult("shop", 9)); err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}
	result, err := s.LatestAnalysis(ctx, repo.ID)
	if err != nil {
		t.Fatalf("LatestAnalysis: %v", err)
	}
	if result.Repository.TotalFiles != 9 || result.Languages[0].Language != "Go" {
		t.Errorf("LatestAnalysis = %+v", result)
	}
}

func TestMutationsOnMissingRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.MarkAnalyzing(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkAnalyzing: %v", err)
	}
	if err := s.SaveAnalysis(ctx, "nope", sampleResult("x", 1)); !errors.Is(err, ErrNotFound) {
		t.Errorf("SaveAnalysis: %v", err)
	}
	if err := s.Delete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete: %v", err)
	}
	result, err := s.LatestAnalysis(ctx, "nope")
	if err != nil || result != nil {
		t.Errorf("LatestAnalysis = %v, %v", result, err)
	}
}

func TestDocuments(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := &Repository{Name: "shop", URL: "u", Branch: "main"}
	s.Create(ctx, repo)

	none, err := s.LatestDocument(ctx, repo.ID)
	if err != nil || none != nil {
		t.Fatalf("LatestDocument on empty = %v, %v", none, err)
	}

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	first := &docgen.Document{Markdown: "# v1", Source: docgen.SourceFallback, GeneratedAt: base}
	second := &docgen.Document{Markdown: "# v2", Source: docgen.SourceLLM, Model: "gpt-4o-mini", InputTokens: 10, OutputTokens: 5, GeneratedAt: base.Add(time.Hour)}
	if _, err := s.SaveDocument(ctx, repo.ID, first); err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}
	stored, err := s.SaveDocument(ctx, repo.ID, second)
	if err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}
	if stored.ID == "" || stored.RepoID != repo.ID {
		t.Errorf("stored = %+v", stored)
	}

	latest, err := s.LatestDocument(ctx, repo.ID)
	if err != nil {
		t.Fatalf("LatestDocument: %v", err)
	}
	if latest.Markdown != "# v2" || latest.Model != "gpt-4o-mini" || latest.InputTokens != 10 {
		t.Errorf("LatestDocument = %+v", latest)
	}

	history, err := s.Documents(ctx, repo.ID)
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	if len(history) != 2 || history[1].Markdown != "# v1" {
		t.Errorf("history = %+v", history)
	}
}

func TestDeleteRemovesChildren(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := &Repository{Name: "shop", URL: "u", Branch: "main"}
	s.Create(ctx, repo)
	s.SaveAnalysis(ctx, repo.ID, sampleResult("shop", 1))
	s.SaveDocument(ctx, repo.ID, &docgen.Document{Markdown: "# d", Source: docgen.SourceFallback})

	if err := s.Delete(ctx, repo.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	for _, table := range []string{"analyses", "documents"} {
		var n int
		s.db.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE repo_id = ?", repo.ID).Scan(&n)
		if n != 0 {
			t.Errorf("%s still has %d rows", table, n)
		}
	}
}

func TestFindByURL(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := &Repository{Name: "shop", URL: "u", Branch: "dev"}
	s.Create(ctx, repo)

	got, err := s.FindByURL(ctx, "u", "dev")
	if err != nil || got == nil || got.ID != repo.ID {
		t.Fatalf("FindByURL = %v, %v", got, err)
	}
	got, err = s.FindByURL(ctx, "u", "main")
	if err != nil || got != nil {
		t.Errorf("FindByURL(other branch) = %v, %v", got, err)
	}
}

func TestAnalyzeSaveFailureMarksError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := &Repository{Name: "shop", URL: "https://example.com/shop.git", Branch: "main"}
	if err := s.Create(ctx, repo); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`CREATE TRIGGER fail_analysis BEFORE INSERT ON analyses BEGIN SELECT RAISE(ABORT, 'disk full'); END`); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	svc := NewService(s, &fakeAnalyzer{}, fakeGenerator{})
	if _, err := svc.Analyze(ctx, repo); err == nil {
		t.Fatal("Analyze succeeded with a failing analyses table")
	}

	got, err := s.Get(ctx, repo.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusError || got.ErrorKind != analysis.KindAnalysisError || got.LastError == "" {
		t.Errorf("after failed save: %+v", got)
	}
}
