package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/repodocs/internal/analysis"
	"github.com/ziadkadry99/repodocs/internal/docgen"
	"github.com/ziadkadry99/repodocs/internal/events"
	"github.com/ziadkadry99/repodocs/internal/fetcher"
	"github.com/ziadkadry99/repodocs/internal/search"
)

type fakeAnalyzer struct {
	mu    sync.Mutex
	err   error
	calls []string
}

func (f *fakeAnalyzer) AnalyzeRepository(_ context.Context, url, branch string, opts ...analysis.RunOption) (*analysis.AnalysisResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url+"@"+branch)
	err := f.err
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	r := sampleResult(fetcher.RepoName(url), 3)
	r.Repository.URL = url
	r.Repository.Branch = branch
	return r, nil
}

type fakeGenerator struct{}

func (fakeGenerator) Generate(_ context.Context, r *analysis.AnalysisResult) (*docgen.Document, error) {
	return &docgen.Document{
		Markdown:    "# " + r.Repository.Name + "\n\nGenerated.\n",
		Source:      docgen.SourceFallback,
		GeneratedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}

type fakeIndex struct {
	mu      sync.Mutex
	docs    map[string]string
	deleted []string
}

func (f *fakeIndex) IndexDocument(_ context.Context, repoID, _ string, md string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[repoID] = md
	return 1, nil
}

func (f *fakeIndex) DeleteRepo(_ context.Context, repoID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, repoID)
	delete(f.docs, repoID)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, q string, limit int) ([]search.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []search.Result{}
	for id, md := range f.docs {
		if strings.Contains(md, q) {
			out = append(out, search.Result{RepoID: id, Snippet: md})
		}
	}
	return out, nil
}

type testEnv struct {
	router   chi.Router
	store    *Store
	analyzer *fakeAnalyzer
	index    *fakeIndex
}

func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	store := newTestStore(t)
	a := &fakeAnalyzer{}
	idx := &fakeIndex{docs: map[string]string{}}
	svc := NewService(store, a, fakeGenerator{}, WithHub(events.NewHub()), WithSearchIndex(idx))

	r := chi.NewRouter()
	RegisterRoutes(r, RoutesDeps{Service: svc})
	return &testEnv{router: r, store: store, analyzer: a, index: idx}
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func createRepo(t *testing.T, env *testEnv, url string) Repository {
	t.Helper()
	w := do(t, env.router, "POST", "/api/repos", map[string]string{"url": url})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	return decode[Repository](t, w)
}

func TestCreateRepoRoute(t *testing.T) {
	env := setupRouter(t)

	repo := createRepo(t, env, "https://github.com/acme/shop.git")
	if repo.Name != "shop" || repo.Branch != "main" || repo.Status != StatusPending {
		t.Errorf("unexpected repo %+v", repo)
	}

	w := do(t, env.router, "POST", "/api/repos", map[string]string{"url": "https://github.com/acme/shop.git"})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate: expected 409, got %d", w.Code)
	}

	w = do(t, env.router, "POST", "/api/repos", map[string]string{"branch": "dev"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing url: expected 400, got %d", w.Code)
	}

	req := httptest.NewRequest("POST", "/api/repos", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad body: expected 400, got %d", rec.Code)
	}
}

func TestListGetDeleteRoutes(t *testing.T) {
	env := setupRouter(t)

	w := do(t, env.router, "GET", "/api/repos", nil)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("empty list: %d %s", w.Code, w.Body.String())
	}

	repo := createRepo(t, env, "https://github.com/acme/shop")
	list := decode[[]Repository](t, do(t, env.router, "GET", "/api/repos", nil))
	if len(list) != 1 || list[0].ID != repo.ID {
		t.Errorf("list = %+v", list)
	}

	w = do(t, env.router, "GET", "/api/repos/"+repo.ID, nil)
	if w.Code != http.StatusOK || decode[Repository](t, w).URL != repo.URL {
		t.Errorf("get: %d %s", w.Code, w.Body.String())
	}
	if w := do(t, env.router, "GET", "/api/repos/missing", nil); w.Code != http.StatusNotFound {
		t.Errorf("get missing: expected 404, got %d", w.Code)
	}

	if w := do(t, env.router, "DELETE", "/api/repos/"+repo.ID, nil); w.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}
	if len(env.index.deleted) != 1 || env.index.deleted[0] != repo.ID {
		t.Errorf("index not cleaned: %v", env.index.deleted)
	}
	if w := do(t, env.router, "DELETE", "/api/repos/"+repo.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", w.Code)
	}
}

func TestAnalyzeRoute(t *testing.T) {
	env := setupRouter(t)
	repo := createRepo(t, env, "https://github.com/acme/shop")

	if w := do(t, env.router, "GET", "/api/repos/"+repo.ID+"/analysis", nil); w.Code != http.StatusNotFound {
		t.Errorf("analysis before run: expected 404, got %d", w.Code)
	}

	w := do(t, env.router, "POST", "/api/repos/"+repo.ID+"/analyze", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("analyze: %d %s", w.Code, w.Body.String())
	}
	result := decode[analysis.AnalysisResult](t, w)
	if result.Repository.Name != "shop" {
		t.Errorf("result = %+v", result.Repository)
	}

	got := decode[Repository](t, do(t, env.router, "GET", "/api/repos/"+repo.ID, nil))
	if got.Status != StatusReady || got.FileCount != 3 || got.AnalyzedAt == nil {
		t.Errorf("after analyze: %+v", got)
	}

	w = do(t, env.router, "GET", "/api/repos/"+repo.ID+"/analysis", nil)
	if w.Code != http.StatusOK {
		t.Errorf("stored analysis: %d", w.Code)
	}
}

func TestAnalyzeErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantKind string
	}{
		{
			name:     "repository unavailable",
			err:      &analysis.AnalysisError{Repo: "shop", State: analysis.StateFetchError, Err: &fetcher.FetchError{Kind: fetcher.FetchFailed, Err: errors.New("not found")}},
			wantCode: http.StatusBadGateway,
			wantKind: analysis.KindRepositoryUnavailable,
		},
		{
			name:     "internal",
			err:      &analysis.AnalysisError{Repo: "shop", State: analysis.StateAnalysisError, Err: errors.New("walk exploded")},
			wantCode: http.StatusInternalServerError,
			wantKind: analysis.KindAnalysisError,
		},
		{
			name:     "invalid url",
			err:      &analysis.AnalysisError{Repo: "repository", State: analysis.StateAnalysisError, Err: analysis.ErrInvalidRepoURL},
			wantCode: http.StatusBadRequest,
			wantKind: analysis.KindInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupRouter(t)
			repo := createRepo(t, env, "https://github.com/acme/shop")
			env.analyzer.err = tt.err

			w := do(t, env.router, "POST", "/api/repos/"+repo.ID+"/analyze", nil)
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			body := decode[map[string]string](t, w)
			if body["kind"] != tt.wantKind {
				t.Errorf("kind = %q, want %q", body["kind"], tt.wantKind)
			}

			got := decode[Repository](t, do(t, env.router, "GET", "/api/repos/"+repo.ID, nil))
			if got.Status != StatusError || got.ErrorKind != tt.wantKind || got.LastError == "" {
				t.Errorf("failure not recorded: %+v", got)
			}
		})
	}
}

func TestGenerateAndDocsRoutes(t *testing.T) {
	env := setupRouter(t)
	repo := createRepo(t, env, "https://github.com/acme/shop")
	base := "/api/repos/" + repo.ID

	for _, p := range []string{"/docs", "/docs/raw", "/docs/html"} {
		if w := do(t, env.router, "GET", base+p, nil); w.Code != http.StatusNotFound {
			t.Errorf("%s before generate: expected 404, got %d", p, w.Code)
		}
	}

	w := do(t, env.router, "POST", base+"/generate", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("generate: %d %s", w.Code, w.Body.String())
	}
	doc := decode[StoredDocument](t, w)
	if doc.RepoID != repo.ID || !strings.HasPrefix(doc.Markdown, "# shop") {
		t.Errorf("doc = %+v", doc)
	}
	if _, ok := env.index.docs[repo.ID]; !ok {
		t.Error("document was not indexed")
	}

	if w := do(t, env.router, "GET", base+"/docs", nil); w.Code != http.StatusOK || decode[StoredDocument](t, w).ID != doc.ID {
		t.Errorf("docs: %d %s", w.Code, w.Body.String())
	}

	w = do(t, env.router, "GET", base+"/docs/raw", nil)
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/markdown") {
		t.Errorf("raw: %d %q", w.Code, w.Header().Get("Content-Type"))
	}
	if w.Header().Get("Content-Disposition") != "" {
		t.Error("raw without download set Content-Disposition")
	}
	w = do(t, env.router, "GET", base+"/docs/raw?download=1", nil)
	if !strings.Contains(w.Header().Get("Content-Disposition"), `filename="shop-README.md"`) {
		t.Errorf("Content-Disposition = %q", w.Header().Get("Content-Disposition"))
	}

	w = do(t, env.router, "GET", base+"/docs/html", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "<h1") {
		t.Errorf("html: %d %s", w.Code, w.Body.String())
	}

	do(t, env.router, "POST", base+"/generate", nil)
	history := decode[[]StoredDocument](t, do(t, env.router, "GET", base+"/docs/history", nil))
	if len(history) != 2 {
		t.Errorf("history has %d documents, want 2", len(history))
	}
}

func TestAdHocRoutes(t *testing.T) {
	env := setupRouter(t)

	w := do(t, env.router, "POST", "/api/analyze", map[string]string{"repoUrl": "https://github.com/acme/blog"})
	if w.Code != http.StatusOK {
		t.Fatalf("ad hoc analyze: %d %s", w.Code, w.Body.String())
	}
	if env.analyzer.calls[0] != "https://github.com/acme/blog@" {
		t.Errorf("analyzer called with %q", env.analyzer.calls[0])
	}
	if repos, _ := env.store.List(context.Background()); len(repos) != 0 {
		t.Errorf("ad hoc analysis registered a repository: %+v", repos)
	}

	w = do(t, env.router, "POST", "/api/generate", map[string]string{"repoUrl": "https://github.com/acme/blog", "branch": "dev"})
	if w.Code != http.StatusOK || decode[docgen.Document](t, w).Source != docgen.SourceFallback {
		t.Fatalf("ad hoc generate: %d %s", w.Code, w.Body.String())
	}

	if w := do(t, env.router, "POST", "/api/analyze", map[string]string{}); w.Code != http.StatusBadRequest {
		t.Errorf("missing repoUrl: expected 400, got %d", w.Code)
	}
}

func TestAdHocWithRepoID(t *testing.T) {
	env := setupRouter(t)
	repo := createRepo(t, env, "https://github.com/acme/shop")

	w := do(t, env.router, "POST", "/api/generate", map[string]string{"repoId": repo.ID})
	if w.Code != http.StatusOK {
		t.Fatalf("generate with repoId: %d %s", w.Code, w.Body.String())
	}
	if doc, _ := env.store.LatestDocument(context.Background(), repo.ID); doc == nil {
		t.Error("document not linked to repository")
	}

	w = do(t, env.router, "POST", "/api/analyze", map[string]string{"repoId": repo.ID, "repoUrl": "https://other"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("mismatched url: expected 400, got %d", w.Code)
	}
	w = do(t, env.router, "POST", "/api/analyze", map[string]string{"repoId": "missing"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown repoId: expected 404, got %d", w.Code)
	}
}

func TestSearchRoute(t *testing.T) {
	env := setupRouter(t)
	repo := createRepo(t, env, "https://github.com/acme/shop")
	do(t, env.router, "POST", "/api/repos/"+repo.ID+"/generate", nil)

	w := do(t, env.router, "GET", "/api/search?q=Generated", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search: %d %s", w.Code, w.Body.String())
	}
	results := decode[[]search.Result](t, w)
	if len(results) != 1 || results[0].RepoID != repo.ID {
		t.Errorf("results = %+v", results)
	}

	if w := do(t, env.router, "GET", "/api/search", nil); w.Code != http.StatusBadRequest {
		t.Errorf("empty q: expected 400, got %d", w.Code)
	}
}

func TestSearchRouteDisabled(t *testing.T) {
	svc := NewService(newTestStore(t), &fakeAnalyzer{}, fakeGenerator{})
	r := chi.NewRouter()
	RegisterRoutes(r, RoutesDeps{Service: svc})

	if w := do(t, r, "GET", "/api/search?q=x", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 without an index, got %d", w.Code)
	}
	if w := do(t, r, "GET", fmt.Sprintf("/api/repos/%s/events", "x"), nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 without a hub, got %d", w.Code)
	}
}

func TestEnsure(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newTestStore(t), &fakeAnalyzer{}, fakeGenerator{})

	a, err := svc.Ensure(ctx, "https://github.com/acme/shop", "")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	b, err := svc.Ensure(ctx, " https://github.com/acme/shop ", "main")
	if err != nil {
		t.Fatalf("Ensure again: %v", err)
	}
	if a.ID != b.ID {
		t.Errorf("Ensure created a second record: %s vs %s", a.ID, b.ID)
	}
	if _, err := svc.Ensure(ctx, "", ""); !errors.Is(err, analysis.ErrInvalidRepoURL) {
		t.Errorf("empty url: %v", err)
	}
}
