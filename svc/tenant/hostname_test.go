package tenant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quinncodes/orgspace/pkg/domains"
	"github.com/quinncodes/orgspace/svc/tenant"
)

func testDomains() domains.Config {
	return domains.Config{
		Base:          "example.com",
		PreviewBase:   "preview.myapp.workers.dev",
		LocalMarker:   "localhost",
		LocalPort:     "5173",
		PreviewMarker: "workers.dev",
	}
}

func TestHostnameResolver_Resolve(t *testing.T) {
	t.Parallel()

	resolver := tenant.NewHostnameResolver(testDomains())

	tests := []struct {
		name     string
		hostname string
		wantSlug string
		wantOK   bool
	}{
		{"local tenant host", "acme.localhost:5173", "acme", true},
		{"local tenant host without port", "acme.localhost", "acme", true},
		{"bare localhost", "localhost:5173", "", false},
		{"bare localhost without port", "localhost", "", false},
		{"preview below threshold", "acme.myapp.workers.dev", "", false},
		{"preview tenant host", "acme.preview.myapp.workers.dev", "acme", true},
		{"production tenant host", "acme.example.com", "acme", true},
		{"production apex", "example.com", "", false},
		{"production apex with port", "example.com:443", "", false},
		{"deep production subdomain uses first label", "acme.eu.example.com", "acme", true},
		{"uppercase is normalized", "ACME.Example.COM", "acme", true},
		{"invalid slug characters", "My_Org!.example.com", "", false},
		{"empty first label", ".example.com", "", false},
		{"numeric slug", "42.example.com", "42", true},
		{"hyphenated slug", "acme-corp.example.com", "acme-corp", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			slug, ok := resolver.Resolve(tt.hostname)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantSlug, slug)
		})
	}
}

func TestHostnameResolver_Deterministic(t *testing.T) {
	t.Parallel()

	resolver := tenant.NewHostnameResolver(testDomains())

	hosts := []string{"acme.example.com", "example.com", "acme.localhost:5173", "bad_slug.example.com"}
	for _, host := range hosts {
		first, firstOK := resolver.Resolve(host)
		for i := 0; i < 10; i++ {
			slug, ok := resolver.Resolve(host)
			assert.Equal(t, first, slug)
			assert.Equal(t, firstOK, ok)
		}
	}
}
