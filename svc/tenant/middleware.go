package tenant

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/quinncodes/orgspace/pkg/environment"
	"github.com/quinncodes/orgspace/pkg/httpx"
	"github.com/quinncodes/orgspace/pkg/lazy"
	"github.com/quinncodes/orgspace/svc/identity"
)

// Deps are the shared dependencies the pipeline needs per request.
// They are constructed exactly once per process through lazy.Value:
// concurrent first requests share one initialization, and a failed
// initialization is retried by a later request instead of sticking.
type Deps struct {
	Identity identity.Provider
	Resolver *Resolver
}

// defaultSkipSubstrings are path fragments excluded from tenant-error
// redirect handling. Auth routes, user pages and the org-creation flow
// must stay reachable no matter what state the tenant is in, otherwise
// the redirects they are the target of would loop.
var defaultSkipSubstrings = []string{"/api/", "/user/", "/orgs/new"}

type middlewareConfig struct {
	skipSubstrings []string
	log            *slog.Logger
}

// MiddlewareOption configures the pipeline middleware.
type MiddlewareOption func(*middlewareConfig)

// WithSkipSubstrings replaces the path fragments that bypass the
// tenant redirect logic.
func WithSkipSubstrings(fragments []string) MiddlewareOption {
	return func(c *middlewareConfig) { c.skipSubstrings = fragments }
}

// WithLogger sets the middleware logger.
func WithLogger(log *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// Middleware runs the whole per-request pipeline: dependency
// initialization, identity resolution, hostname tenant resolution,
// membership resolution and the access decision. Requests that pass
// carry an immutable RequestContext; everything else is answered with
// a redirect.
//
// Identity failures degrade to anonymous (see identity.ResolveFailOpen)
// and membership failures degrade to OrgError fields. Initialization
// failure is the only condition that aborts the request outright,
// because no meaningful decision can be made without the shared
// dependencies.
func Middleware(deps *lazy.Value[*Deps], hostnames HostnameResolver, engine Engine, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		skipSubstrings: defaultSkipSubstrings,
		log:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			d, err := deps.Get(ctx)
			if err != nil {
				cfg.log.ErrorContext(ctx, "pipeline initialization failed", "error", err)
				httpx.Error(w, http.StatusInternalServerError, "service initialization failed")
				return
			}

			auth := identity.ResolveFailOpen(ctx, d.Identity, r.Header)
			if auth != nil {
				ctx = identity.WithAuth(ctx, auth)
			}

			for _, fragment := range cfg.skipSubstrings {
				if strings.Contains(r.URL.Path, fragment) {
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			rc := resolveRequestContext(r, d, hostnames, auth)

			decision := engine.Decide(environment.FromContext(ctx), rc)
			switch decision.Kind {
			case DecisionRedirect:
				http.Redirect(w, r, decision.Location, decision.Status)
			case DecisionDeny:
				httpx.Error(w, decision.Status, http.StatusText(decision.Status))
			default:
				ctx = WithRequestContext(ctx, rc)
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}

// resolveRequestContext is the pure reducer that assembles the
// immutable RequestContext from the resolver outputs.
func resolveRequestContext(r *http.Request, d *Deps, hostnames HostnameResolver, auth *identity.Auth) RequestContext {
	slug, ok := hostnames.Resolve(r.Host)
	if !ok {
		return RequestContext{Auth: auth}
	}

	var userID *uuid.UUID
	if auth != nil && auth.User != nil {
		id := auth.User.ID
		userID = &id
	}

	o, role, orgErr := d.Resolver.Resolve(r.Context(), slug, userID)
	return RequestContext{
		Slug:     slug,
		Auth:     auth,
		Org:      o,
		Role:     role,
		OrgError: orgErr,
	}
}
