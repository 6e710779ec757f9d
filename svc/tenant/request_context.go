package tenant

import (
	"github.com/quinncodes/orgspace/svc/identity"
	"github.com/quinncodes/orgspace/svc/org"
)

// OrgError classifies why tenant resolution did not produce a usable
// (organization, role) pair. It is a closed set so the access decision
// can switch over it exhaustively.
type OrgError uint8

const (
	// OrgErrorNone means resolution succeeded or no tenant was targeted.
	OrgErrorNone OrgError = iota
	// OrgErrorNotFound means the slug has no matching organization.
	// User-correctable: the visitor is offered the creation flow.
	OrgErrorNotFound
	// OrgErrorNoAccess means the organization exists but the
	// authenticated caller has no membership in it. An authorization
	// failure, not a system fault.
	OrgErrorNoAccess
	// OrgErrorFault means storage or provider failure. Transient, no
	// state corruption implied, and always distinct from NotFound so
	// "does not exist" is never conflated with "could not determine".
	OrgErrorFault
)

func (e OrgError) String() string {
	switch e {
	case OrgErrorNone:
		return "none"
	case OrgErrorNotFound:
		return "org_not_found"
	case OrgErrorNoAccess:
		return "no_access"
	case OrgErrorFault:
		return "error"
	default:
		return "unknown"
	}
}

// RequestContext aggregates everything the access decision needs about
// one request. It is built once per request by the middleware, after
// which it is immutable; nothing in the pipeline mutates it in place.
//
// Invariants:
//   - OrgError is non-none iff the request targeted a tenant subdomain
//     and resolution did not yield a usable (organization, role) pair.
//   - Role is non-nil iff both the user and the organization are
//     non-nil and a matching membership exists.
type RequestContext struct {
	// Slug is the tenant label from the hostname; empty on the main domain.
	Slug string
	// Auth is the caller's resolved identity; nil for anonymous.
	Auth *identity.Auth
	// Org is the resolved organization; nil when absent or on fault.
	Org *org.Organization
	// Role is the caller's membership role in Org; nil without membership.
	Role *org.Role
	// OrgError classifies a failed tenant resolution.
	OrgError OrgError
}

// HasTenant reports whether the request targeted a tenant subdomain.
func (rc RequestContext) HasTenant() bool { return rc.Slug != "" }

// HasUser reports whether the caller is authenticated.
func (rc RequestContext) HasUser() bool { return rc.Auth != nil && rc.Auth.User != nil }

// HasRole reports whether the caller holds a membership role in the
// resolved organization.
func (rc RequestContext) HasRole() bool { return rc.Role != nil }

// User returns the authenticated user or nil.
func (rc RequestContext) User() *identity.User {
	if rc.Auth == nil {
		return nil
	}
	return rc.Auth.User
}
