package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/capsql/internal/core/services"
)

// registerUnsupportedTools registers the host operations that exist in the
// contract but always fail, so hosts can feature-detect them.
func (s *Server) registerUnsupportedTools() {
	for _, op := range services.UnsupportedOperations {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        op,
			Description: "Not supported; always fails",
		}, unsupportedHandler(op))
	}
}

func unsupportedHandler(op string) mcp.ToolHandlerFor[map[string]any, any] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ map[string]any) (*mcp.CallToolResult, any, error) {
		return nil, nil, services.Unsupported(op)
	}
}
