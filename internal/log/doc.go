// Package log is the process-wide structured logger.
//
// It wraps log/slog with a fan-out handler: human or JSON lines on stderr
// (warnings and errors unless Verbose) and, when DebugDir is set, every level
// as JSON lines in a daily file with a "latest" symlink. Seeds, passphrases
// and signed envelopes are never logged; use the tx_id instead.
package log
