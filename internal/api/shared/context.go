// Package shared holds the context keys and response helpers used across
// API handlers and middleware.
package shared

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is a private type for context keys defined in this package.
type ContextKey int

const (
	// UserIDContextKey carries the authenticated user's ID, set by the auth
	// middleware.
	UserIDContextKey ContextKey = iota

	// TraceIDKey carries the request's trace ID, set by the trace
	// middleware.
	TraceIDKey
)

// WithUserID returns a context carrying the authenticated user's ID.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDContextKey, userID)
}

// UserID extracts the authenticated user's ID from the context.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDContextKey).(uuid.UUID)
	return id, ok
}

// WithTraceID returns a context carrying the request trace ID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// TraceID extracts the request trace ID from the context, or "" when unset.
func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(TraceIDKey).(string); ok {
		return id
	}
	return ""
}
