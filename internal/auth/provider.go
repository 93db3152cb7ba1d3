package auth

import (
	"context"
)

type contextKey struct{}

var userIDKey contextKey

// Provider resolves the authenticated current user, if any. This is the
// identity-provider seam the social graph service depends on: it answers
// "who is calling" or "nobody", never an error.
type Provider interface {
	CurrentUserID(ctx context.Context) (string, bool)
}

// WithUserID returns a context carrying the authenticated user id
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts the authenticated user id from the context
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// ContextProvider resolves the current user from request context values
// placed there by the bearer-token middleware.
type ContextProvider struct{}

// CurrentUserID implements Provider
func (ContextProvider) CurrentUserID(ctx context.Context) (string, bool) {
	return UserIDFromContext(ctx)
}
