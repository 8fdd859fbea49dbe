package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Session Errors.

	// ErrInitialization indicates the SQL engine failed to load or has not been initialised.
	ErrInitialization = errors.New("engine initialization failed")

	// ErrUnknownDatabase indicates an operation named a database with no open handle.
	ErrUnknownDatabase = errors.New("unknown database")

	// ErrStatement indicates SQL preparation, binding or execution failed.
	// Concrete failures are reported as *StatementError.
	ErrStatement = errors.New("statement failed")

	// ErrNotSupported indicates the operation is not available in this environment.
	// Callers can feature-detect with errors.Is.
	ErrNotSupported = errors.New("not supported in this environment")
)
