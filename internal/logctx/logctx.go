// Package logctx carries a zerolog logger through context.Context.
//
// The CLI attaches a logger tagged with a per-run id; the pipeline derives
// child loggers tagged with the current input:
//
//	ctx = logctx.WithRunID(ctx)
//	ctx = logctx.WithStr(ctx, "input", path)
//	log := logctx.FromContext(ctx)
package logctx

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eunmann/content-filter/pkg/logging"
)

// loggerKey is the private key type for storing loggers in context.
type loggerKey struct{}

// runIDKey is the private key type for storing the run id in context.
type runIDKey struct{}

// WithLogger returns a new context with the given logger attached.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext extracts the logger from the context. If the context is nil
// or carries no logger, the global logging.L() logger is returned.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
			return logger
		}
	}
	return *logging.L()
}

// WithStr returns a new context whose logger has the string field added.
func WithStr(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, logger)
}

// WithInt returns a new context whose logger has the int field added.
func WithInt(ctx context.Context, key string, value int) context.Context {
	logger := FromContext(ctx).With().Int(key, value).Logger()
	return WithLogger(ctx, logger)
}

// WithRunID generates a run id, stores it in the context and tags the
// context logger with it.
func WithRunID(ctx context.Context) context.Context {
	id := uuid.NewString()
	ctx = WithStr(ctx, "run_id", id)
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run id stored by WithRunID, or "".
func RunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
