// Package logging assembles structured slog loggers and formatting helpers used
// across imgopt.
//
// It owns the console and JSON handlers and the level and output plumbing.
// Context helpers tag records with the run ID and operation name; the console
// handler lifts those, the component and the file path into the line prefix
// so a batch reads as one thread of lines. The package also provides a no-op logger
// for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape.
package logging
