// Package services defines shared utilities consumed by the tool adapters
// and the CLI layer.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that classify failures
//     into consistent process exit codes (usage vs runtime).
//   - The command runner seam that makes subprocess execution testable
//     without spawning spleeter or demucs in unit tests.
package services
