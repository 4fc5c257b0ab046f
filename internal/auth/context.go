// Package auth provides password hashing, session tokens and request identity.
package auth

import (
	"context"

	"github.com/rolegate/rolegate/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// userContextKey is the context key for storing the session user.
	userContextKey contextKey = "session_user"
)

// ContextWithUser adds the session user to the context.
func ContextWithUser(ctx context.Context, user *model.SessionUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the session user from the context.
// Returns nil if the request is anonymous.
func UserFromContext(ctx context.Context) *model.SessionUser {
	user, ok := ctx.Value(userContextKey).(*model.SessionUser)
	if !ok {
		return nil
	}
	return user
}

// UserIDFromContext returns the session user's ID, or "" when anonymous.
func UserIDFromContext(ctx context.Context) string {
	user := UserFromContext(ctx)
	if user == nil {
		return ""
	}
	return user.ID
}
