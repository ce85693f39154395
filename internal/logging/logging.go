// Package logging threads request-scoped slog loggers through contexts so
// every layer logs with the same request attributes.
package logging

import (
	"context"
	"io"
	"log/slog"
)

// NewJSONLogger builds the process-wide structured logger. Level parsing is
// forgiving: unknown names fall back to info.
func NewJSONLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

type loggerKey struct{}

// ContextWithLogger attaches logger to ctx. Nil arguments leave ctx as is.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger attached to ctx, or nil when none is set so
// callers can apply their own fallback.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return nil
	}
	logger, _ := ctx.Value(loggerKey{}).(*slog.Logger)
	return logger
}
