package identity

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey struct{}

// WithAuth attaches the resolved auth pair to the context.
func WithAuth(ctx context.Context, auth *Auth) context.Context {
	return context.WithValue(ctx, contextKey{}, auth)
}

// FromContext returns the resolved auth pair, if any. Anonymous
// requests have no auth in context.
func FromContext(ctx context.Context) (*Auth, bool) {
	auth, ok := ctx.Value(contextKey{}).(*Auth)
	return auth, ok && auth != nil
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*User, bool) {
	auth, ok := FromContext(ctx)
	if !ok || auth.User == nil {
		return nil, false
	}
	return auth.User, true
}

// UserIDFromContext gives fast access to the caller's user id.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return uuid.UUID{}, false
	}
	return user.ID, true
}

// LoggerExtractor enriches log records with the authenticated user id.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := UserIDFromContext(ctx); ok {
			return slog.String("user_id", id.String()), true
		}
		return slog.Attr{}, false
	}
}
