// Package mcp exposes the database session contract as an MCP (Model Context
// Protocol) server, so hosts can drive capsql databases as tool calls.
package mcp

import "errors"

// ErrMissingDatabaseService is returned when the database service is not provided.
var ErrMissingDatabaseService = errors.New("mcp: database service is required")
