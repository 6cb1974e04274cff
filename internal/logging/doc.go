// Package logging constructs the slog logger used across stemsplit.
//
// Two output formats exist: a compact console format for interactive use
// and JSON for capture. The "auto" format picks console when stderr is a
// terminal. When a log directory is configured, records are additionally
// appended to stemsplit.log as JSON.
package logging
