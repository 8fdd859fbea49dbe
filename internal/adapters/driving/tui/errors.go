package tui

import "errors"

// ErrMissingDatabaseService is returned when the database service is not provided.
var ErrMissingDatabaseService = errors.New("tui: database service is required")

// ErrMissingDatabase is returned when no database name is given.
var ErrMissingDatabase = errors.New("tui: database name is required")
