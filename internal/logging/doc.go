// Package logging assembles structured slog loggers and formatting helpers used
// across romsel.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes helpers so synchronizer code can tag log lines with the
// operation, run ID, and archive being processed. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every command emits
// data with the same shape.
package logging
