package identity

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Role is the platform-level role of a user account. Organization
// roles are a separate concept owned by the org domain.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an account sourced from the identity provider. This service
// never writes users directly; all mutations go through the provider's
// admin API.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      Role      `json:"role"`
	Banned    bool      `json:"banned"`
	BanReason string    `json:"banReason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is an opaque provider-issued session. It is read-only here:
// issuing, refreshing and revoking are the provider's business.
type Session struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired() bool {
	return s != nil && !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Auth pairs a session with its user, as returned by the provider.
type Auth struct {
	Session *Session `json:"session"`
	User    *User    `json:"user"`
}

// Provider resolves the caller's session from request headers. A nil
// Auth with nil error means anonymous; errors indicate the provider
// itself failed.
type Provider interface {
	Resolve(ctx context.Context, headers http.Header) (*Auth, error)
}

// ResolveFailOpen resolves the caller's identity, downgrading every
// failure mode to anonymous. This is deliberate policy, not an
// oversight: identity-provider unavailability must never take the
// whole request pipeline down with a 5xx. Anonymous is always a safe
// degraded state because tenant-gated content is still protected by
// the access decision downstream.
//
// Expired sessions and banned users are also treated as anonymous.
func ResolveFailOpen(ctx context.Context, p Provider, headers http.Header) *Auth {
	auth, err := p.Resolve(ctx, headers)
	if err != nil || auth == nil {
		return nil
	}
	if auth.Session.Expired() {
		return nil
	}
	if auth.User == nil || auth.User.Banned {
		return nil
	}
	return auth
}
