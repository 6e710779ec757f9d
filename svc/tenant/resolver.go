package tenant

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/quinncodes/orgspace/svc/org"
)

// Resolver loads the organization for a slug together with the
// caller's membership role, classifying every non-success outcome into
// the OrgError taxonomy. It never returns a Go error to the pipeline:
// failures become contextual fields the access decision acts on.
type Resolver struct {
	store org.Store
	cache Cache
	log   *slog.Logger
}

// ResolverOption configures the Resolver.
type ResolverOption func(*Resolver)

// WithCache sets the organization cache. Defaults to no caching.
func WithCache(cache Cache) ResolverOption {
	return func(r *Resolver) {
		if cache != nil {
			r.cache = cache
		}
	}
}

// WithResolverLogger sets the logger used for storage faults.
func WithResolverLogger(log *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// NewResolver creates a membership resolver over the given store.
func NewResolver(store org.Store, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store: store,
		cache: NoOpCache{},
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve determines the organization and the caller's role for a
// tenant slug.
//
// Outcomes:
//   - slug has no organization: (nil, nil, OrgErrorNotFound)
//   - storage fault: (nil, nil, OrgErrorFault)
//   - authenticated caller without membership: (org, nil, OrgErrorNoAccess)
//   - anonymous caller, organization exists: (org, nil, OrgErrorNone);
//     the access decision, not resolution, turns this into a login redirect
//   - member: (org, role, OrgErrorNone)
//
// The cache only serves anonymous lookups: a cached organization says
// nothing about the caller's membership, and roles must stay fresh.
func (r *Resolver) Resolve(ctx context.Context, slug string, userID *uuid.UUID) (*org.Organization, *org.Role, OrgError) {
	if userID == nil {
		if cached, ok := r.cache.Get(ctx, slug); ok {
			return cached, nil, OrgErrorNone
		}
	}

	o, role, err := r.store.ResolveBySlug(ctx, slug, userID)
	if err != nil {
		if errors.Is(err, org.ErrNotFound) {
			return nil, nil, OrgErrorNotFound
		}
		r.log.ErrorContext(ctx, "organization lookup failed", "slug", slug, "error", err)
		return nil, nil, OrgErrorFault
	}

	if err := r.cache.Set(ctx, slug, o); err != nil {
		r.log.WarnContext(ctx, "organization cache write failed", "slug", slug, "error", err)
	}

	if userID != nil && role == nil {
		return o, nil, OrgErrorNoAccess
	}
	return o, role, OrgErrorNone
}
