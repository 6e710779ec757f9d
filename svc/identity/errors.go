package identity

import "errors"

var (
	// ErrProviderUnavailable is returned when the identity provider
	// cannot be reached or answers with a server error.
	ErrProviderUnavailable = errors.New("identity: provider unavailable")

	// ErrUnexpectedResponse is returned when the provider answers with
	// a payload this client cannot interpret.
	ErrUnexpectedResponse = errors.New("identity: unexpected provider response")

	// ErrUnauthorized is returned by admin operations when the
	// forwarded caller credentials are rejected by the provider.
	ErrUnauthorized = errors.New("identity: unauthorized")
)
