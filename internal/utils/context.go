package utils

import (
	"context"
	"time"
)

type contextKey string

const ContextSessionKey contextKey = "session"

// SessionData is the guard-checked view of a stored session that
// travels with the request context.
type SessionData struct {
	SessionID string
	UserID    int
	EventID   int
	Login     string
	Token     string
	ExpiresAt time.Time
}

// WithSession attaches session data to the request context.
func WithSession(ctx context.Context, s SessionData) context.Context {
	return context.WithValue(ctx, ContextSessionKey, s)
}

// GetSessionFromContext returns the session attached by the guard
// middleware, if any.
func GetSessionFromContext(ctx context.Context) (SessionData, bool) {
	s, ok := ctx.Value(ContextSessionKey).(SessionData)
	return s, ok
}
