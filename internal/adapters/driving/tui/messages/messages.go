// Package messages defines Bubbletea message types for the SQL console.
package messages

import (
	"github.com/custodia-labs/capsql/internal/core/domain"
)

// QueryCompleted carries the rows of a read statement.
type QueryCompleted struct {
	Statement string
	Rows      []domain.Row
	Err       error
}

// ExecCompleted carries the outcome of a write statement.
type ExecCompleted struct {
	Statement string
	Changes   domain.Changes
	Err       error
}

// SaveCompleted reports the outcome of a save.
type SaveCompleted struct {
	Err error
}
