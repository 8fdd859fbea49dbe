package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for capsql resources.
const uriScheme = "capsql://"

// databaseInfo describes one database in resource listings.
type databaseInfo struct {
	Name  string `json:"name"`
	Saved bool   `json:"saved"`
	Open  bool   `json:"open"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "databases",
		Name:        "databases",
		Description: "Databases with a saved snapshot or an open connection",
		MIMEType:    "application/json",
	}, s.handleDatabasesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "databases/{database}",
		Name:        "database",
		Description: "Persistence state of one database",
		MIMEType:    "application/json",
	}, s.handleDatabaseResource)
}

// handleDatabasesResource lists saved and open databases.
func (s *Server) handleDatabasesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Catalog == nil {
		return jsonResource(req.Params.URI, []databaseInfo{})
	}

	infos, err := s.databaseInfos(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, infos)
}

// handleDatabaseResource describes a single database.
func (s *Server) handleDatabaseResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Catalog == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	name := extractDatabaseName(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	infos, err := s.databaseInfos(ctx)
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		if info.Name == name {
			return jsonResource(req.Params.URI, info)
		}
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

// databaseInfos merges saved and open names into one sorted list.
func (s *Server) databaseInfos(ctx context.Context) ([]databaseInfo, error) {
	saved, err := s.ports.Catalog.Databases(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing databases: %w", err)
	}
	open := s.ports.Catalog.OpenDatabases()

	names := slices.Concat(saved, open)
	slices.Sort(names)
	names = slices.Compact(names)

	infos := make([]databaseInfo, len(names))
	for i, name := range names {
		infos[i] = databaseInfo{
			Name:  name,
			Saved: slices.Contains(saved, name),
			Open:  slices.Contains(open, name),
		}
	}
	return infos, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDatabaseName extracts the name from a URI like capsql://databases/{database}.
func extractDatabaseName(uri string) string {
	const prefix = uriScheme + "databases/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	name := strings.TrimPrefix(uri, prefix)
	if strings.Contains(name, "/") {
		return ""
	}
	return name
}
