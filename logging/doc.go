// Package logging provides a minimal logging interface and adapters for the
// route optimization agents.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the colony, ants, pheromone manager and coordinator use
// for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, grid searches)
//   - ColonyLogger with contextual day/iteration/component helpers
//
// The design intentionally keeps the interface minimal so agents never depend
// on a concrete logger implementation.
package logging
