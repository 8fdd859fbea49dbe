// Package sqlite implements driven.SQLEngine on modernc.org/sqlite.
//
// Each DatabaseHandle pins a single connection to a private :memory:
// database, so the database lives exactly as long as the handle. Images
// are exported and restored with the driver's Serialize and Deserialize
// extensions, producing ordinary SQLite database files.
//
// # Values
//
// Bound values must already be sanitised (see domain.Sanitize). Values
// read back are normalised into the same domain: bool becomes 0 or 1 and
// time.Time is rendered as text, since the driver parses DATE and
// DATETIME columns on its own.
//
// # Change Counting
//
// Changes are measured as the difference of total_changes() around each
// statement, so DDL reports zero instead of the previous DML count.
package sqlite
