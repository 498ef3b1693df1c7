package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/repodocs/internal/analysis"
	"github.com/ziadkadry99/repodocs/internal/registry"
	"github.com/ziadkadry99/repodocs/internal/search"
)

// handleAnalyzeRepository registers the repository if needed and analyzes it.
func (s *Server) handleAnalyzeRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("repo_url")
	if err != nil || strings.TrimSpace(url) == "" {
		return mcp.NewToolResultError("missing required parameter: repo_url"), nil
	}
	branch := request.GetString("branch", "")

	repo, err := s.svc.Ensure(ctx, url, branch)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("registering repository: %v", err)), nil
	}

	if request.GetBool("generate", false) {
		doc, err := s.svc.Generate(ctx, repo)
		if err != nil {
			return analysisError(err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Repository id: %s\nDocumentation source: %s\n\n%s", repo.ID, doc.Source, doc.Markdown)), nil
	}

	result, err := s.svc.Analyze(ctx, repo)
	if err != nil {
		return analysisError(err), nil
	}
	return mcp.NewToolResultText(formatAnalysis(repo.ID, result)), nil
}

// handleListRepositories lists every registered repository.
func (s *Server) handleListRepositories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repos, err := s.svc.Store().List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing repositories: %v", err)), nil
	}
	if len(repos) == 0 {
		return mcp.NewToolResultText("No repositories registered. Use analyze_repository to add one."), nil
	}
	return mcp.NewToolResultText(formatRepositories(repos)), nil
}

// handleGetDocumentation returns the latest document of a repository.
func (s *Server) handleGetDocumentation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("repo_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: repo_id"), nil
	}

	repo, err := s.svc.Store().Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("getting repository: %v", err)), nil
	}
	if repo == nil {
		return mcp.NewToolResultError(fmt.Sprintf("repository %q not found", id)), nil
	}
	doc, err := s.svc.Store().LatestDocument(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("getting documentation: %v", err)), nil
	}
	if doc == nil {
		return mcp.NewToolResultError(fmt.Sprintf(
			"No documentation generated for %q yet. Call analyze_repository with generate=true.", repo.Name,
		)), nil
	}
	return mcp.NewToolResultText(doc.Markdown), nil
}

// handleSearchDocumentation performs semantic search over indexed documents.
func (s *Server) handleSearchDocumentation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	idx := s.svc.Index()
	if idx == nil {
		return mcp.NewToolResultError("search is disabled; set search.enabled in the configuration"), nil
	}

	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}
	results, err := idx.Search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("No results found. Documentation may not be generated yet."), nil
	}
	return mcp.NewToolResultText(formatSearchResults(results)), nil
}

func analysisError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("analysis failed (%s): %v", analysis.ErrorKind(err), err))
}

// formatAnalysis summarises a result for agent consumption.
func formatAnalysis(repoID string, r *analysis.AnalysisResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Repository: %s (id %s)\n", r.Repository.Name, repoID)
	fmt.Fprintf(&sb, "Files: %d, code files: %d, estimated LOC: %d\n",
		r.Metrics.TotalFiles, r.Metrics.CodeFiles, r.Metrics.EstimatedLinesOfCode)

	langs := make([]string, len(r.Languages))
	for i, l := range r.Languages {
		langs[i] = fmt.Sprintf("%s (%d)", l.Language, l.FileCount)
	}
	fmt.Fprintf(&sb, "Languages: %s\n", orNone(langs))
	fmt.Fprintf(&sb, "Frameworks: %s\n", orNone(r.Frameworks))
	fmt.Fprintf(&sb, "Package manager: %s, %d dependencies\n", r.Dependencies.PackageManager, r.Dependencies.Total)
	fmt.Fprintf(&sb, "Entry points: %s\n", orNone(r.EntryPoints))
	if r.Readme != nil {
		fmt.Fprintf(&sb, "README: %s\n", r.Readme.Filename)
	} else {
		sb.WriteString("README: none\n")
	}
	specs := make([]string, len(r.APISpecs))
	for i, a := range r.APISpecs {
		specs[i] = a.File + " (" + a.Type + ")"
	}
	fmt.Fprintf(&sb, "API specs: %s\n", orNone(specs))
	for _, w := range r.Warnings {
		fmt.Fprintf(&sb, "Warning: %s\n", w)
	}
	sb.WriteString("\nStructure:\n")
	sb.WriteString(r.Structure)
	return sb.String()
}

func formatRepositories(repos []registry.Repository) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d repositor%s:\n", len(repos), plural(len(repos), "y", "ies"))
	for _, r := range repos {
		fmt.Fprintf(&sb, "\n- %s (id %s)\n  url: %s\n  branch: %s\n  status: %s\n", r.Name, r.ID, r.URL, r.Branch, r.Status)
		if r.FileCount > 0 {
			fmt.Fprintf(&sb, "  files: %d\n", r.FileCount)
		}
		if r.LastError != "" {
			fmt.Fprintf(&sb, "  last error (%s): %s\n", r.ErrorKind, r.LastError)
		}
	}
	return sb.String()
}

// formatSearchResults converts search results into a rich text format optimized
// for AI agent consumption.
func formatSearchResults(results []search.Result) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n", len(results)))

	for i, r := range results {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("Repository: %s (id %s)\n", r.RepoName, r.RepoID))
		if r.Heading != "" {
			sb.WriteString(fmt.Sprintf("Section: %s\n", r.Heading))
		}
		sb.WriteString(fmt.Sprintf("Similarity: %.1f%%\n", r.Similarity*100))
		sb.WriteString("\n")
		sb.WriteString(r.Snippet)
		sb.WriteString("\n")
	}

	return sb.String()
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
