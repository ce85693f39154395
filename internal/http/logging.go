package http

import (
	"context"
	"log/slog"

	"github.com/example/forum-matchmaker/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// handlerLogger prefers the request-scoped logger carried in ctx and tags it
// with the handler and operation names.
func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	switch {
	case logger != nil:
	case fallback != nil:
		logger = fallback
	default:
		logger = slog.Default()
	}

	logger = logger.With("handler", handlerName, "operation", operation)
	if len(attrs) > 0 {
		logger = logger.With(attrs...)
	}
	return logger
}
