// Package logging constructs the application slog loggers.
//
// Two output formats are supported: "console", a compact single-line
// format for interactive use, and "json" for log collectors. Loggers can
// fan out to stdout/stderr and a log file at the same time.
package logging
