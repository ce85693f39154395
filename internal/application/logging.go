package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/forum-matchmaker/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// serviceLogger prefers the request-scoped logger carried in ctx and tags it
// with the service and operation names.
func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	switch {
	case logger != nil:
	case base != nil:
		logger = base
	default:
		logger = slog.Default()
	}

	logger = logger.With("service", serviceName, "operation", operation)
	if len(attrs) > 0 {
		logger = logger.With(attrs...)
	}
	return logger
}

var errorKinds = []struct {
	target error
	label  string
}{
	{ErrUnauthorized, "unauthorized"},
	{ErrNotFound, "not_found"},
	{ErrAlreadyExists, "already_exists"},
	{ErrInvalidCredentials, "invalid_credentials"},
	{ErrSessionExpired, "session_expired"},
	{ErrSessionRevoked, "session_revoked"},
}

// ErrorKind labels an error with a stable token for log filtering.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}

	for _, kind := range errorKinds {
		if errors.Is(err, kind.target) {
			return kind.label
		}
	}
	return "unexpected"
}
