package tenant

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// WithRequestContext attaches the resolved request context.
func WithRequestContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, rc)
}

// FromContext retrieves the resolved request context. The second
// return is false when the pipeline middleware did not run.
func FromContext(ctx context.Context) (RequestContext, bool) {
	rc, ok := ctx.Value(contextKey{}).(RequestContext)
	return rc, ok
}

// MustFromContext panics when no request context is present. Use only
// in handlers mounted behind the pipeline middleware.
func MustFromContext(ctx context.Context) RequestContext {
	rc, ok := FromContext(ctx)
	if !ok {
		panic("tenant: no request context")
	}
	return rc
}

// LoggerExtractor enriches log records with the tenant slug.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if rc, ok := FromContext(ctx); ok && rc.HasTenant() {
			return slog.String("tenant", rc.Slug), true
		}
		return slog.Attr{}, false
	}
}
