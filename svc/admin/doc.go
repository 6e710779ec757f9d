// Package admin exposes platform-level user management backed by the
// identity provider's admin API: listing, creation, role changes and
// bans. Authorization is enforced twice, once here via the resolved
// platform role and again by the provider on the forwarded call.
package admin
