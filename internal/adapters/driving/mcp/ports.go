package mcp

import (
	"github.com/custodia-labs/capsql/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server needs.
type Ports struct {
	// Database serves every host operation.
	Database driving.DatabaseService

	// Catalog backs the database resources. Optional.
	Catalog driving.SnapshotCatalog
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Database == nil {
		return ErrMissingDatabaseService
	}
	return nil
}
