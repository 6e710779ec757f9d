package tenant

import (
	"regexp"
	"strings"

	"github.com/quinncodes/orgspace/pkg/domains"
)

// slugPattern is the only shape a tenant subdomain label may take.
var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// HostnameResolver extracts an organization slug from a request
// hostname. It is a pure function over the hostname: no I/O, no
// errors, deterministic. A hostname that does not carry a tenant
// label resolves to "no tenant", never to a failure.
//
// The label-count thresholds differ per environment because the bare
// base domain has a different number of dot-separated labels in each:
// one for localhost, four for a preview host under workers.dev, two
// for the production apex. Getting a threshold wrong either
// false-positives a tenant on the bare domain or misses a real one.
type HostnameResolver struct {
	localMarker   string
	previewMarker string
	// previewMinLabels is the label count of the shortest preview host
	// that carries a tenant: the marker's own labels plus a project
	// label, an environment label and the slug.
	previewMinLabels int
}

// NewHostnameResolver builds a resolver from the domain configuration.
func NewHostnameResolver(cfg domains.Config) HostnameResolver {
	markerLabels := strings.Count(cfg.PreviewMarker, ".") + 1
	return HostnameResolver{
		localMarker:      cfg.LocalMarker,
		previewMarker:    cfg.PreviewMarker,
		previewMinLabels: markerLabels + 3,
	}
}

// Resolve returns the tenant slug carried by the hostname, or false
// when the hostname addresses the main domain.
func (r HostnameResolver) Resolve(hostname string) (string, bool) {
	host := strings.ToLower(hostname)
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}

	parts := strings.Split(host, ".")

	var candidate string
	switch {
	case strings.Contains(host, r.localMarker):
		// acme.localhost carries a tenant, bare localhost does not.
		if len(parts) < 2 || parts[1] != r.localMarker {
			return "", false
		}
		candidate = parts[0]
	case strings.Contains(host, r.previewMarker):
		// Preview hosts are {slug}.{env}.{project}.{marker...}; a
		// first label on anything shorter is part of the base domain,
		// not a tenant.
		if len(parts) < r.previewMinLabels {
			return "", false
		}
		candidate = parts[0]
	default:
		// Production: {slug}.{apex}.{tld}.
		if len(parts) < 3 {
			return "", false
		}
		candidate = parts[0]
	}

	if candidate == "" || !slugPattern.MatchString(candidate) {
		return "", false
	}
	return candidate, true
}
