// Package mcp exposes repository analysis and documentation generation as
// Model Context Protocol tools over streamable HTTP.
package mcp

import (
	"context"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Strob0t/DocuCrew/internal/domain/crew"
	"github.com/Strob0t/DocuCrew/internal/domain/repository"
)

// Analyzer extracts a repository snapshot from a reference.
type Analyzer interface {
	Analyze(ctx context.Context, ref string) (*repository.Snapshot, []repository.APIFile, error)
}

// Generator runs the documentation pipeline over a snapshot.
type Generator interface {
	Run(ctx context.Context, snap *repository.Snapshot) crew.RunResult
}

// ServerConfig names the server in the MCP handshake.
type ServerConfig struct {
	Name    string
	Version string
	// EndpointPath is where the streamable HTTP transport is mounted.
	EndpointPath string
}

// ServerDeps are the services behind the tools. Nil deps make the
// corresponding tools return an error result.
type ServerDeps struct {
	Analyzer  Analyzer
	Generator Generator
}

// Server wraps an MCP server with DocuCrew tools and resources.
type Server struct {
	mcpServer *mcpserver.MCPServer
	deps      ServerDeps
	cfg       ServerConfig
}

// NewServer creates an MCP server and registers its tools and resources.
func NewServer(cfg ServerConfig, deps ServerDeps) *Server {
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = "/mcp"
	}
	s := &Server{
		mcpServer: mcpserver.NewMCPServer(cfg.Name, cfg.Version,
			mcpserver.WithToolCapabilities(false),
			mcpserver.WithResourceCapabilities(false, false),
			mcpserver.WithRecovery(),
		),
		deps: deps,
		cfg:  cfg,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, mainly for tests.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// Handler returns the streamable HTTP transport. Sessions are not kept;
// every request carries its own tool call.
func (s *Server) Handler() http.Handler {
	return mcpserver.NewStreamableHTTPServer(s.mcpServer,
		mcpserver.WithEndpointPath(s.cfg.EndpointPath),
		mcpserver.WithStateLess(true),
	)
}
