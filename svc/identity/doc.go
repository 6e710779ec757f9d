// Package identity consumes the external identity provider's HTTP
// contract: session resolution, the admin user-management API, and a
// pass-through proxy for the provider's own routes.
//
// The provider owns credentials, password hashing and session token
// issuance; this package only reads the results. Session resolution is
// fail-open by policy (see ResolveFailOpen): a broken provider
// degrades every caller to anonymous instead of failing requests.
package identity
