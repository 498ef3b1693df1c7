package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/repodocs/internal/registry"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes repository analysis and
// documentation tools.
type Server struct {
	svc *registry.Service
	mcp *server.MCPServer
}

// NewServer creates a new MCP server backed by svc.
func NewServer(svc *registry.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"repodocs",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(analyzeRepositoryTool, s.handleAnalyzeRepository)
	s.mcp.AddTool(listRepositoriesTool, s.handleListRepositories)
	s.mcp.AddTool(getDocumentationTool, s.handleGetDocumentation)
	s.mcp.AddTool(searchDocumentationTool, s.handleSearchDocumentation)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
