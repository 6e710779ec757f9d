package org

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quinncodes/orgspace/pkg/domains"
	"github.com/quinncodes/orgspace/pkg/environment"
	"github.com/quinncodes/orgspace/pkg/slug"
)

// Service implements organization creation and listing on top of Store.
type Service struct {
	store   Store
	domains domains.Config
	log     *slog.Logger
	now     func() time.Time
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the organization service.
func NewService(store Store, dcfg domains.Config, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		domains: dcfg,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateParams are the inputs for organization creation. An empty Slug
// is derived from the Name.
type CreateParams struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CreateResult carries the created organization and the subdomain
// dashboard URL the caller should land on.
type CreateResult struct {
	Organization *Organization `json:"organization"`
	DashboardURL string        `json:"redirect_url"`
}

// Create validates the input, creates the organization with the caller
// as its admin, and returns the environment-aware dashboard URL on the
// new subdomain.
//
// Uniqueness is guaranteed by the storage unique constraint; the
// pre-check via ResolveBySlug only exists to return ErrSlugTaken
// without burning a transaction in the common case.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*CreateResult, error) {
	if params.Name == "" {
		return nil, ErrNameRequired
	}

	sl := params.Slug
	if sl == "" {
		sl = slug.Make(params.Name)
	}
	if !slug.IsValid(sl) {
		return nil, ErrInvalidSlug
	}

	if _, _, err := s.store.ResolveBySlug(ctx, sl, nil); err == nil {
		return nil, ErrSlugTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	o := &Organization{
		ID:        uuid.New(),
		Slug:      sl,
		Name:      params.Name,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Create(ctx, o, userID); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "organization created",
		"org_id", o.ID.String(), "slug", o.Slug, "owner_id", userID.String())

	env := environment.FromContext(ctx)
	return &CreateResult{
		Organization: o,
		DashboardURL: s.domains.TenantURL(env, o.Slug, "/dashboard"),
	}, nil
}

// List returns the organizations the user belongs to.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Organization, error) {
	return s.store.UserOrganizations(ctx, userID)
}
