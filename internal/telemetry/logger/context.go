package logger

import (
	"context"

	"github.com/oklog/ulid/v2"
)

type contextKey string

const (
	loggerKey contextKey = "zfs-tool.logger"
	runIDKey  contextKey = "zfs-tool.run_id"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// NewRunID returns a new invocation id. Ids sort by creation time.
func NewRunID() string {
	return ulid.Make().String()
}

// WithRunID adds the invocation id to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext extracts the invocation id from context.
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// L is a shorthand for FromContext that binds the logger to ctx and
// enriches it with the run id from the context.
func L(ctx context.Context) Logger {
	l := FromContext(ctx).WithContext(ctx)
	if id := RunIDFromContext(ctx); id != "" {
		l = l.With("run_id", id)
	}
	return l
}
