// Package tui provides an interactive SQL console for one database.
// It is a driving adapter over driving.DatabaseService.
package tui

import (
	"github.com/custodia-labs/capsql/internal/core/ports/driving"
)

// Ports aggregates the driving ports the console needs.
type Ports struct {
	// Database runs statements and saves.
	Database driving.DatabaseService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Database == nil {
		return ErrMissingDatabaseService
	}
	return nil
}
