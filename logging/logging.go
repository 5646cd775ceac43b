// Package logging builds the application's zap logger and carries a
// request-scoped copy of it through context.Context.
package logging

import (
	"context"

	"go.uber.org/zap"
)

type privateKey string

const loggerKey privateKey = "logger"

// New returns a JSON production logger, or a human readable development
// logger when isProd is false.
func New(isProd bool) (*zap.Logger, error) {
	if isProd {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.NewNop()
}
