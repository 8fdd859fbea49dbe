package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/capsql/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// instructions is sent to clients on initialize.
const instructions = `capsql keeps named SQLite databases in memory.

Call initialize once, then createConnection for each database. Writes stay in
memory until saveToStore is called; close discards unsaved changes. Values in
run, executeSet and query bind to ? placeholders; true and false bind as 1 and 0.
Read capsql://databases to see saved and open databases.`

// Server exposes a database service as MCP tools and resources.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a server for ports. Database is required.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{ports: ports}
	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "capsql",
		Title:   "capsql databases",
		Version: Version,
	}, &mcp.ServerOptions{
		Instructions: instructions,
		InitializedHandler: func(context.Context, *mcp.InitializedRequest) {
			logger.Info("MCP client connected")
		},
	})

	s.registerTools()
	s.registerUnsupportedTools()
	s.registerResources()

	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
