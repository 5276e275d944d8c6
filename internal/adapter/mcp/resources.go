package mcp

import (
	"context"
	"encoding/json"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/Strob0t/DocuCrew/internal/domain/crew"
)

const rolesURI = "docucrew://roles"

func (s *Server) registerResources() {
	s.mcpServer.AddResource(
		mcplib.NewResource(
			rolesURI,
			"Crew Roles",
			mcplib.WithResourceDescription("The five documentation roles in pipeline order"),
			mcplib.WithMIMEType("application/json"),
		),
		s.handleRolesResource,
	)
}

func (s *Server) handleRolesResource(_ context.Context, req mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	data, err := json.Marshal(crew.Roles())
	if err != nil {
		return nil, err
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
