// Package logging assembles structured slog loggers and formatting helpers used
// across the storefront daemon and CLI.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so request handlers and
// enrichment code automatically tag log lines with listing IDs and request
// IDs. A no-op logger is provided for tests and wiring code that cannot fail.
package logging
