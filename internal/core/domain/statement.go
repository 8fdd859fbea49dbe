package domain

import (
	"encoding/json"
	"fmt"
)

// Statement is one SQL text with its ordered bind values.
type Statement struct {
	// SQL is the statement text. Placeholders are positional (?).
	SQL string `json:"statement"`

	// Values are bound to the placeholders in order.
	Values []Value `json:"values"`
}

// Changes is the aggregate result of a mutating operation.
// Hosts receive a single count, never one per statement.
type Changes struct {
	// Changes is the number of rows inserted, updated or deleted.
	Changes int64 `json:"changes"`

	// LastID is the rowid of the most recent successful insert on the handle.
	LastID int64 `json:"lastId"`
}

// StatementError reports a failed SQL statement.
// When Statement is set, the message embeds the SQL text and the values
// that were bound, to aid diagnosis.
type StatementError struct {
	Statement string
	Values    []Value
	Err       error
}

// Error implements error.
func (e *StatementError) Error() string {
	if e.Statement == "" {
		return e.Err.Error()
	}
	detail, err := json.Marshal(Statement{SQL: e.Statement, Values: e.Values})
	if err != nil {
		return fmt.Sprintf("%v %q", e.Err, e.Statement)
	}
	return fmt.Sprintf("%v %s", e.Err, detail)
}

// Unwrap returns the underlying engine error.
func (e *StatementError) Unwrap() error {
	return e.Err
}

// Is matches ErrStatement.
func (e *StatementError) Is(target error) bool {
	return target == ErrStatement
}
