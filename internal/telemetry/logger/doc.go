// Package logger provides structured logging for zfs-tool.
//
// This package wraps log/slog:
//
//   - logger.go: Logger interface, configuration and the default logger
//   - context.go: context propagation and the per-invocation run id
//
// Logs always go to stderr so that command output on stdout stays
// machine readable.
package logger
