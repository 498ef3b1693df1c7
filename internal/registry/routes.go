package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/repodocs/internal/analysis"
	"github.com/ziadkadry99/repodocs/internal/render"
)

// RoutesDeps holds the dependencies needed to register repository routes.
type RoutesDeps struct {
	Service  *Service
	Renderer *render.Renderer
	Logger   *slog.Logger
}

// RegisterRoutes wires up the repository REST API endpoints.
func RegisterRoutes(r chi.Router, deps RoutesDeps) {
	if deps.Renderer == nil {
		deps.Renderer = render.New()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	h := &routeHandler{deps: deps, svc: deps.Service}

	r.Route("/api/repos", func(r chi.Router) {
		r.Post("/", h.createRepo)
		r.Get("/", h.listRepos)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.getRepo)
			r.Delete("/", h.removeRepo)
			r.Post("/analyze", h.analyzeRepo)
			r.Post("/generate", h.generateRepo)
			r.Get("/analysis", h.getAnalysis)
			r.Get("/docs", h.getDocs)
			r.Get("/docs/history", h.getDocHistory)
			r.Get("/docs/raw", h.getDocsRaw)
			r.Get("/docs/html", h.getDocsHTML)
			r.Get("/events", h.streamEvents)
		})
	})
	r.Post("/api/analyze", h.analyzeAdHoc)
	r.Post("/api/generate", h.generateAdHoc)
	if h.svc.Index() != nil {
		r.Get("/api/search", h.search)
	}
}

type routeHandler struct {
	deps RoutesDeps
	svc  *Service
}

type createRepoRequest struct {
	URL    string `json:"url"`
	Branch string `json:"branch,omitempty"`
	Name   string `json:"name,omitempty"`
}

type adHocRequest struct {
	RepoURL string `json:"repoUrl"`
	Branch  string `json:"branch,omitempty"`
	RepoID  string `json:"repoId,omitempty"`
}

func (h *routeHandler) createRepo(w http.ResponseWriter, r *http.Request) {
	var req createRepoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body", analysis.KindInvalidInput))
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("url is required", analysis.KindInvalidInput))
		return
	}

	repo, err := h.svc.Register(r.Context(), req.URL, req.Branch, req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, repo)
}

func (h *routeHandler) listRepos(w http.ResponseWriter, r *http.Request) {
	repos, err := h.svc.Store().List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, repos)
}

// lookup loads the {id} repository, writing a 404 when it does not exist.
func (h *routeHandler) lookup(w http.ResponseWriter, r *http.Request) (*Repository, bool) {
	id := chi.URLParam(r, "id")
	repo, err := h.svc.Store().Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	if repo == nil {
		writeJSON(w, http.StatusNotFound, errorBody(fmt.Sprintf("repository %q not found", id), ""))
		return nil, false
	}
	return repo, true
}

func (h *routeHandler) getRepo(w http.ResponseWriter, r *http.Request) {
	if repo, ok := h.lookup(w, r); ok {
		writeJSON(w, http.StatusOK, repo)
	}
}

func (h *routeHandler) removeRepo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Remove(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("repository %q removed", id)})
}

func (h *routeHandler) analyzeRepo(w http.ResponseWriter, r *http.Request) {
	repo, ok := h.lookup(w, r)
	if !ok {
		return
	}
	result, err := h.svc.Analyze(r.Context(), repo)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *routeHandler) generateRepo(w http.ResponseWriter, r *http.Request) {
	repo, ok := h.lookup(w, r)
	if !ok {
		return
	}
	doc, err := h.svc.Generate(r.Context(), repo)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *routeHandler) getAnalysis(w http.ResponseWriter, r *http.Request) {
	repo, ok := h.lookup(w, r)
	if !ok {
		return
	}
	result, err := h.svc.Store().LatestAnalysis(r.Context(), repo.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if result == nil {
		writeJSON(w, http.StatusNotFound, errorBody("repository has not been analyzed", ""))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// latestDoc loads the newest document of the {id} repository, writing a 404
// when the repository or its document is missing.
func (h *routeHandler) latestDoc(w http.ResponseWriter, r *http.Request) (*Repository, *StoredDocument, bool) {
	repo, ok := h.lookup(w, r)
	if !ok {
		return nil, nil, false
	}
	doc, err := h.svc.Store().LatestDocument(r.Context(), repo.ID)
	if err != nil {
		h.writeError(w, err)
		return nil, nil, false
	}
	if doc == nil {
		writeJSON(w, http.StatusNotFound, errorBody("no documentation generated yet", ""))
		return nil, nil, false
	}
	return repo, doc, true
}

func (h *routeHandler) getDocs(w http.ResponseWriter, r *http.Request) {
	if _, doc, ok := h.latestDoc(w, r); ok {
		writeJSON(w, http.StatusOK, doc)
	}
}

func (h *routeHandler) getDocHistory(w http.ResponseWriter, r *http.Request) {
	repo, ok := h.lookup(w, r)
	if !ok {
		return
	}
	docs, err := h.svc.Store().Documents(r.Context(), repo.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *routeHandler) getDocsRaw(w http.ResponseWriter, r *http.Request) {
	repo, doc, ok := h.latestDoc(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	if r.URL.Query().Get("download") == "1" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", repo.Name+"-README.md"))
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc.Markdown))
}

func (h *routeHandler) getDocsHTML(w http.ResponseWriter, r *http.Request) {
	repo, doc, ok := h.latestDoc(w, r)
	if !ok {
		return
	}
	page, err := h.deps.Renderer.Page(repo.Name, doc.Markdown)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(page)
}

func (h *routeHandler) streamEvents(w http.ResponseWriter, r *http.Request) {
	hub := h.svc.Hub()
	if hub == nil {
		writeJSON(w, http.StatusNotFound, errorBody("event streaming is disabled", ""))
		return
	}
	repo, ok := h.lookup(w, r)
	if !ok {
		return
	}
	hub.ServeWS(w, r, repo.ID, h.deps.Logger)
}

// decodeAdHoc parses an ad hoc request. With a repoId the registered
// repository is returned; its url must match repoUrl when both are given.
func (h *routeHandler) decodeAdHoc(w http.ResponseWriter, r *http.Request) (adHocRequest, *Repository, bool) {
	var req adHocRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body", analysis.KindInvalidInput))
		return req, nil, false
	}
	req.RepoURL = strings.TrimSpace(req.RepoURL)

	if req.RepoID == "" {
		if req.RepoURL == "" {
			writeJSON(w, http.StatusBadRequest, errorBody("repoUrl is required", analysis.KindInvalidInput))
			return req, nil, false
		}
		return req, nil, true
	}

	repo, err := h.svc.Store().Get(r.Context(), req.RepoID)
	if err != nil {
		h.writeError(w, err)
		return req, nil, false
	}
	if repo == nil {
		writeJSON(w, http.StatusNotFound, errorBody(fmt.Sprintf("repository %q not found", req.RepoID), ""))
		return req, nil, false
	}
	if (req.RepoURL != "" && req.RepoURL != repo.URL) || (req.Branch != "" && req.Branch != repo.Branch) {
		writeJSON(w, http.StatusBadRequest, errorBody("repoUrl and branch must match the registered repository", analysis.KindInvalidInput))
		return req, nil, false
	}
	return req, repo, true
}

func (h *routeHandler) analyzeAdHoc(w http.ResponseWriter, r *http.Request) {
	req, repo, ok := h.decodeAdHoc(w, r)
	if !ok {
		return
	}
	var (
		result *analysis.AnalysisResult
		err    error
	)
	if repo != nil {
		result, err = h.svc.Analyze(r.Context(), repo)
	} else {
		result, err = h.svc.AnalyzeURL(r.Context(), req.RepoURL, req.Branch)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *routeHandler) generateAdHoc(w http.ResponseWriter, r *http.Request) {
	req, repo, ok := h.decodeAdHoc(w, r)
	if !ok {
		return
	}
	if repo != nil {
		doc, err := h.svc.Generate(r.Context(), repo)
		if err != nil {
			h.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
		return
	}
	doc, err := h.svc.GenerateURL(r.Context(), req.RepoURL, req.Branch)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *routeHandler) search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("q is required", analysis.KindInvalidInput))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Index().Search(r.Context(), q, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// writeError maps err to a status code. Analysis failures carry a kind so
// clients can tell an unreachable repository from an internal error.
func (h *routeHandler) writeError(w http.ResponseWriter, err error) {
	var ae *analysis.AnalysisError
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error(), ""))
	case errors.Is(err, ErrDuplicate):
		writeJSON(w, http.StatusConflict, errorBody(err.Error(), ""))
	case errors.Is(err, analysis.ErrInvalidRepoURL):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error(), analysis.KindInvalidInput))
	case errors.Is(err, analysis.ErrRepositoryUnavailable):
		writeJSON(w, http.StatusBadGateway, errorBody(err.Error(), analysis.KindRepositoryUnavailable))
	case errors.As(err, &ae):
		h.deps.Logger.Error("analysis failed", "repo", ae.Repo, "state", ae.State, "error", ae.Err)
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error(), analysis.KindAnalysisError))
	default:
		h.deps.Logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error(), ""))
	}
}

func errorBody(msg, kind string) map[string]string {
	body := map[string]string{"error": msg}
	if kind != "" {
		body["kind"] = kind
	}
	return body
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
