// Package logging assembles the structured slog loggers used across the
// tool.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and provides typed attribute helpers plus a no-op logger for
// tests. Prefer these constructors over hand-rolled slog setup so every
// component emits log lines with the same shape.
package logging
