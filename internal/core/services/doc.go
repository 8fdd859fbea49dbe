// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The central service is SessionManager, which owns the registry of open
// in-memory databases and checkpoints them to a snapshot store when asked.
// Persistence is caller-driven: nothing is saved implicitly after a write.
//
// Services are pure Go with no CGO dependencies.
package services
