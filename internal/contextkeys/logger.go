package contextkeys

import (
	"context"

	"github.com/BerkanHRGL/schadeautos/internal/core/port"
)

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// ContextWithLogger attaches a logger to the context so use cases and
// repositories log with the caller's fields (run id, site, trace id).
func ContextWithLogger(ctx context.Context, logger port.LoggerPort) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger, falling back to a no-op logger so
// callers never need a nil check.
func LoggerFromContext(ctx context.Context) port.LoggerPort {
	if logger, ok := ctx.Value(loggerKey).(port.LoggerPort); ok {
		return logger
	}
	return port.NoopLogger()
}
