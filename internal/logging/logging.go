// Package logging wraps log/slog with a component tag carried through
// context.Context, mirroring the shape the rest of the codebase calls
// (logging.Info, logging.Debug, logging.WithComponent) regardless of which
// handler is installed underneath.
package logging

import (
	"context"
	"log/slog"
	"os"
)

type componentKey struct{}

var defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// Init installs a handler writing to w at the given level. Call once from
// main; tests may call it to capture output.
func Init(w *os.File, level slog.Level) {
	defaultLogger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// WithComponent returns a context tagging subsequent log calls with component.
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey{}, component)
}

func componentFrom(ctx context.Context) string {
	if c, ok := ctx.Value(componentKey{}).(string); ok {
		return c
	}
	return ""
}

func withComponentArg(ctx context.Context, args []any) []any {
	if c := componentFrom(ctx); c != "" {
		return append([]any{slog.String("component", c)}, args...)
	}
	return args
}

// Info logs at info level, tagging with the context's component if set.
func Info(ctx context.Context, msg string, args ...any) {
	defaultLogger.InfoContext(ctx, msg, withComponentArg(ctx, args)...)
}

// Debug logs at debug level, tagging with the context's component if set.
func Debug(ctx context.Context, msg string, args ...any) {
	defaultLogger.DebugContext(ctx, msg, withComponentArg(ctx, args)...)
}

// Warn logs at warn level, tagging with the context's component if set.
func Warn(ctx context.Context, msg string, args ...any) {
	defaultLogger.WarnContext(ctx, msg, withComponentArg(ctx, args)...)
}

// Error logs at error level, tagging with the context's component if set.
func Error(ctx context.Context, msg string, args ...any) {
	defaultLogger.ErrorContext(ctx, msg, withComponentArg(ctx, args)...)
}
