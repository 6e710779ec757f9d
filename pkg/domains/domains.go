package domains

import (
	"net/url"

	"github.com/quinncodes/orgspace/pkg/environment"
)

// Config describes how the application is addressed in each
// environment. Tenant workspaces live on {slug}.{base host}; the main
// domain serves the landing, login and org-creation flows.
type Config struct {
	Base          string `env:"APP_BASE_DOMAIN" envDefault:"example.com"`            // Base is the production apex domain.
	PreviewBase   string `env:"APP_PREVIEW_BASE" envDefault:"preview.example.workers.dev"` // PreviewBase is the staging/preview base host.
	LocalMarker   string `env:"APP_LOCAL_DOMAIN" envDefault:"localhost"`             // LocalMarker is the loopback host label.
	LocalPort     string `env:"APP_LOCAL_PORT" envDefault:"5173"`                    // LocalPort is the local dev port.
	PreviewMarker string `env:"APP_PREVIEW_MARKER" envDefault:"workers.dev"`         // PreviewMarker identifies preview hostnames.
}

// Scheme returns the URL scheme for the environment. Local development
// is plain HTTP, everything else is HTTPS.
func (c Config) Scheme(env environment.Environment) string {
	if env == environment.Development || env == "dev" {
		return "http"
	}
	return "https"
}

// MainHost returns the main-domain host for the environment.
func (c Config) MainHost(env environment.Environment) string {
	switch env {
	case environment.Development, "dev":
		return c.LocalMarker + ":" + c.LocalPort
	case environment.Staging, "stage":
		return c.PreviewBase
	default:
		return c.Base
	}
}

// TenantHost returns the subdomain host for a tenant slug.
func (c Config) TenantHost(env environment.Environment, slug string) string {
	return slug + "." + c.MainHost(env)
}

// MainURL builds an absolute URL on the main domain.
func (c Config) MainURL(env environment.Environment, path string) string {
	return c.Scheme(env) + "://" + c.MainHost(env) + path
}

// TenantURL builds an absolute URL on a tenant subdomain.
func (c Config) TenantURL(env environment.Environment, slug, path string) string {
	return c.Scheme(env) + "://" + c.TenantHost(env, slug) + path
}

// OrgCreationURL builds the main-domain org-creation URL, carrying the
// requested slug as a suggestion.
func (c Config) OrgCreationURL(env environment.Environment, suggested string) string {
	u := c.MainURL(env, "/orgs/new")
	if suggested != "" {
		u += "?suggested=" + url.QueryEscape(suggested)
	}
	return u
}
