package org

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is a member's role within one organization.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is a known organization role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Organization is a customer workspace addressed by its slug-based
// subdomain. The slug is immutable after creation.
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Membership grants one user a role within one organization. The
// (UserID, OrganizationID) pair is unique.
type Membership struct {
	UserID         uuid.UUID `json:"user_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

// Store is the persistence surface for organizations and memberships.
type Store interface {
	// ResolveBySlug loads an organization together with the caller's
	// role in it, in a single query. The role is nil when userID is
	// nil or the user has no membership. Returns ErrNotFound when the
	// slug has no organization.
	ResolveBySlug(ctx context.Context, slug string, userID *uuid.UUID) (*Organization, *Role, error)

	// Create inserts the organization and the owner's admin membership
	// atomically. Returns ErrSlugTaken on a slug collision.
	Create(ctx context.Context, o *Organization, ownerID uuid.UUID) error

	// UserOrganizations lists the organizations the user belongs to,
	// newest first.
	UserOrganizations(ctx context.Context, userID uuid.UUID) ([]Organization, error)
}
