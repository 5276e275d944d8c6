package mcp

import (
	"context"
	"encoding/json"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Strob0t/DocuCrew/internal/port/repohost"
)

func (s *Server) registerTools() {
	s.mcpServer.AddTools(
		s.analyzeRepositoryTool(),
		s.generateDocumentationTool(),
	)
}

func repoArgs() []mcplib.ToolOption {
	return []mcplib.ToolOption{
		mcplib.WithString("repo_url",
			mcplib.Required(),
			mcplib.Description("Repository URL or owner/name"),
		),
		mcplib.WithString("github_token",
			mcplib.Description("Optional GitHub token used instead of the server token"),
		),
	}
}

func (s *Server) analyzeRepositoryTool() mcpserver.ServerTool {
	opts := append([]mcplib.ToolOption{
		mcplib.WithDescription("Extract a repository snapshot: metadata, file tree, key files and likely API files"),
	}, repoArgs()...)
	return mcpserver.ServerTool{
		Tool:    mcplib.NewTool("analyze_repository", opts...),
		Handler: s.handleAnalyzeRepository,
	}
}

func (s *Server) generateDocumentationTool() mcpserver.ServerTool {
	opts := append([]mcplib.ToolOption{
		mcplib.WithDescription("Generate a documentation bundle for a repository with the five-role crew"),
	}, repoArgs()...)
	return mcpserver.ServerTool{
		Tool:    mcplib.NewTool("generate_documentation", opts...),
		Handler: s.handleGenerateDocumentation,
	}
}

// repoRequest pulls repo_url and github_token from the call. The token, if
// any, travels in the returned context.
func repoRequest(ctx context.Context, req *mcplib.CallToolRequest) (context.Context, string, bool) {
	args := req.GetArguments()
	ref, ok := args["repo_url"].(string)
	if !ok || ref == "" {
		return ctx, "", false
	}
	if token, ok := args["github_token"].(string); ok {
		ctx = repohost.WithToken(ctx, token)
	}
	return ctx, ref, true
}

func (s *Server) handleAnalyzeRepository(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if s.deps.Analyzer == nil {
		return mcplib.NewToolResultError("analyzer not configured"), nil
	}
	ctx, ref, ok := repoRequest(ctx, &req)
	if !ok {
		return mcplib.NewToolResultError("repo_url is required"), nil
	}
	snap, apiFiles, err := s.deps.Analyzer.Analyze(ctx, ref)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to analyze repository", err), nil
	}
	data, err := json.Marshal(map[string]any{"data": snap, "api_files": apiFiles})
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to marshal snapshot", err), nil
	}
	return toolResultJSON(string(data)), nil
}

func (s *Server) handleGenerateDocumentation(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if s.deps.Analyzer == nil || s.deps.Generator == nil {
		return mcplib.NewToolResultError("documentation pipeline not configured"), nil
	}
	ctx, ref, ok := repoRequest(ctx, &req)
	if !ok {
		return mcplib.NewToolResultError("repo_url is required"), nil
	}
	snap, _, err := s.deps.Analyzer.Analyze(ctx, ref)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to analyze repository", err), nil
	}

	result := s.deps.Generator.Run(ctx, snap)
	if !result.Success {
		return mcplib.NewToolResultError("documentation run failed: " + result.Error), nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to marshal result", err), nil
	}
	return toolResultJSON(string(data)), nil
}

func toolResultJSON(text string) *mcplib.CallToolResult {
	return mcplib.NewToolResultText(text)
}
