// Package logging wires log/slog with console and JSON handlers plus the
// attribute helpers and context-derived fields shared across the pipeline.
package logging
