// Package ctxutil carries the authenticated caller through context.Context.
// It depends only on internal/models so it can be imported from any layer.
package ctxutil

import (
	"context"

	"github.com/example/kandy/internal/models"
)

// Session identifies the caller of an operation.
type Session struct {
	UserID string
	Role   models.Role
}

// SessionKey is the context key for the caller's Session.
type SessionKey struct{}

// WithSession returns a context with the session embedded.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, SessionKey{}, s)
}

// SessionFromContext returns the session from context. ok is false when the
// context carries no session or an empty one.
func SessionFromContext(ctx context.Context) (s Session, ok bool) {
	s, ok = ctx.Value(SessionKey{}).(Session)
	if !ok || s.UserID == "" {
		return Session{}, false
	}
	return s, true
}

// ActorFromContext returns the caller's user id, or empty string if not set.
func ActorFromContext(ctx context.Context) string {
	s, _ := SessionFromContext(ctx)
	return s.UserID
}
