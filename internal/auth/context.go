package auth

import (
	"context"

	"github.com/webreviewer/webreviewer/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const authContextKey contextKey = "auth_context"

// ContextWithAuth attaches the authenticated identity to the context.
func ContextWithAuth(ctx context.Context, a *model.AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, a)
}

// FromContext retrieves the authenticated identity, or nil when the request
// is unauthenticated.
func FromContext(ctx context.Context) *model.AuthContext {
	a, ok := ctx.Value(authContextKey).(*model.AuthContext)
	if !ok {
		return nil
	}
	return a
}

// MustFromContext retrieves the authenticated identity and panics when it is
// absent. Only call behind the auth middleware.
func MustFromContext(ctx context.Context) *model.AuthContext {
	a := FromContext(ctx)
	if a == nil {
		panic("auth context not found - ensure auth middleware is applied")
	}
	return a
}
