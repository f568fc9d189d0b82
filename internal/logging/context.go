package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// FromContext extracts the logger from context
// If no logger is found, returns a disabled logger (no-op)
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// WithComponent creates a child logger with a component field
func WithComponent(ctx context.Context, component string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str("component", component).Logger()
	return WithContext(ctx, childLogger)
}

// WithWorkspaceID creates a child logger with a workspace_id field
func WithWorkspaceID(ctx context.Context, workspaceID int) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Int("workspace_id", workspaceID).Logger()
	return WithContext(ctx, childLogger)
}

// WithContextID creates a child logger with a context_id field
func WithContextID(ctx context.Context, contextID string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str("context_id", contextID).Logger()
	return WithContext(ctx, childLogger)
}

// WithURL creates a child logger with a url field
func WithURL(ctx context.Context, url string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str("url", url).Logger()
	return WithContext(ctx, childLogger)
}
