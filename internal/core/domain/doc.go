// Package domain defines the core entities for capsql.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Value: A bound parameter or column value
//   - Statement: One SQL text with its ordered values
//   - Changes: The aggregate result of a mutating operation
//   - Row: An ordered column-name to value mapping
//   - Snapshot: A persisted byte image of a database
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
