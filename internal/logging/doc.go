// Package logging assembles structured slog loggers and attribute helpers used
// across reelwrap.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so enrichment code can tag log
// lines with the run identifier and stage. A no-op logger is provided for
// tests and wiring code that cannot fail.
package logging
