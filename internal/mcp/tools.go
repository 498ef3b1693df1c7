package mcp

import "github.com/mark3labs/mcp-go/mcp"

// analyzeRepositoryTool defines the analyze_repository MCP tool.
var analyzeRepositoryTool = mcp.NewTool("analyze_repository",
	mcp.WithDescription("Clone a git repository, analyze its structure, languages, frameworks and dependencies, and register it. Optionally generate documentation."),
	mcp.WithString("repo_url",
		mcp.Required(),
		mcp.Description("Clone URL of the repository"),
	),
	mcp.WithString("branch",
		mcp.Description("Branch to analyze (default main)"),
	),
	mcp.WithBoolean("generate",
		mcp.Description("Also generate and store documentation"),
	),
)

// listRepositoriesTool defines the list_repositories MCP tool.
var listRepositoriesTool = mcp.NewTool("list_repositories",
	mcp.WithDescription("List registered repositories with their analysis status."),
)

// getDocumentationTool defines the get_documentation MCP tool.
var getDocumentationTool = mcp.NewTool("get_documentation",
	mcp.WithDescription("Get the latest generated markdown documentation of a registered repository."),
	mcp.WithString("repo_id",
		mcp.Required(),
		mcp.Description("Repository id as returned by list_repositories"),
	),
)

// searchDocumentationTool defines the search_documentation MCP tool.
var searchDocumentationTool = mcp.NewTool("search_documentation",
	mcp.WithDescription("Semantic search over generated documentation of all repositories."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
)
