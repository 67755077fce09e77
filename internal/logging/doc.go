// Package logging assembles the structured slog loggers used across
// jewelcase commands.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so command code automatically
// tags log lines with the run identifier and command name. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape and routing.
package logging
