// Package logging assembles structured slog loggers and formatting helpers used
// across acbfe.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so page-level code can tag log
// lines with the comic book and page being processed. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
