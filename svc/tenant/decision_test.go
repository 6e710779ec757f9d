package tenant_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/quinncodes/orgspace/pkg/environment"
	"github.com/quinncodes/orgspace/svc/identity"
	"github.com/quinncodes/orgspace/svc/org"
	"github.com/quinncodes/orgspace/svc/tenant"
)

func authedUser() *identity.Auth {
	return &identity.Auth{
		Session: &identity.Session{Token: "tok", UserID: uuid.New()},
		User:    &identity.User{ID: uuid.New(), Email: "member@example.com", Role: identity.RoleUser},
	}
}

func testOrg(slug string) *org.Organization {
	return &org.Organization{ID: uuid.New(), Slug: slug, Name: slug + " Inc"}
}

func TestEngine_Decide(t *testing.T) {
	t.Parallel()

	engine := tenant.NewEngine(testDomains())
	adminRole := org.RoleAdmin

	tests := []struct {
		name         string
		rc           tenant.RequestContext
		wantKind     tenant.DecisionKind
		wantLocation string
	}{
		{
			name:     "main domain request is served",
			rc:       tenant.RequestContext{},
			wantKind: tenant.DecisionServe,
		},
		{
			name:     "main domain request with user is served",
			rc:       tenant.RequestContext{Auth: authedUser()},
			wantKind: tenant.DecisionServe,
		},
		{
			name:         "unknown tenant redirects to creation with suggested slug",
			rc:           tenant.RequestContext{Slug: "ghost", OrgError: tenant.OrgErrorNotFound},
			wantKind:     tenant.DecisionRedirect,
			wantLocation: "https://example.com/orgs/new?suggested=ghost",
		},
		{
			name:         "unknown tenant redirects to creation for authenticated caller too",
			rc:           tenant.RequestContext{Slug: "ghost", Auth: authedUser(), OrgError: tenant.OrgErrorNotFound},
			wantKind:     tenant.DecisionRedirect,
			wantLocation: "https://example.com/orgs/new?suggested=ghost",
		},
		{
			name:         "anonymous visitor to live tenant redirects to login",
			rc:           tenant.RequestContext{Slug: "acme", Org: testOrg("acme")},
			wantKind:     tenant.DecisionRedirect,
			wantLocation: "/user/login",
		},
		{
			name: "authenticated caller without membership redirects to login",
			rc: tenant.RequestContext{
				Slug: "acme", Auth: authedUser(), Org: testOrg("acme"),
				OrgError: tenant.OrgErrorNoAccess,
			},
			wantKind:     tenant.DecisionRedirect,
			wantLocation: "/user/login",
		},
		{
			name: "member with role is served",
			rc: tenant.RequestContext{
				Slug: "acme", Auth: authedUser(), Org: testOrg("acme"), Role: &adminRole,
			},
			wantKind: tenant.DecisionServe,
		},
		{
			name:         "storage fault redirects to main domain",
			rc:           tenant.RequestContext{Slug: "acme", OrgError: tenant.OrgErrorFault},
			wantKind:     tenant.DecisionRedirect,
			wantLocation: "https://example.com/",
		},
		{
			name: "storage fault with authenticated caller redirects to main domain",
			rc: tenant.RequestContext{
				Slug: "acme", Auth: authedUser(), OrgError: tenant.OrgErrorFault,
			},
			wantKind:     tenant.DecisionRedirect,
			wantLocation: "https://example.com/",
		},
		{
			name: "authenticated caller on live tenant without role falls back to login",
			rc: tenant.RequestContext{
				Slug: "acme", Auth: authedUser(), Org: testOrg("acme"),
			},
			wantKind:     tenant.DecisionRedirect,
			wantLocation: "/user/login",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			decision := engine.Decide(environment.Production, tt.rc)
			assert.Equal(t, tt.wantKind, decision.Kind)
			assert.Equal(t, tt.wantLocation, decision.Location)
			if decision.Kind == tenant.DecisionRedirect {
				assert.Equal(t, http.StatusFound, decision.Status)
			}
		})
	}
}

func TestEngine_Decide_EnvironmentAwareRedirects(t *testing.T) {
	t.Parallel()

	engine := tenant.NewEngine(testDomains())

	t.Run("development creation redirect uses local host", func(t *testing.T) {
		t.Parallel()

		decision := engine.Decide(environment.Development,
			tenant.RequestContext{Slug: "ghost", OrgError: tenant.OrgErrorNotFound})
		assert.Equal(t, tenant.DecisionRedirect, decision.Kind)
		assert.Equal(t, "http://localhost:5173/orgs/new?suggested=ghost", decision.Location)
	})

	t.Run("staging fault redirect uses preview host", func(t *testing.T) {
		t.Parallel()

		decision := engine.Decide(environment.Staging,
			tenant.RequestContext{Slug: "acme", OrgError: tenant.OrgErrorFault})
		assert.Equal(t, tenant.DecisionRedirect, decision.Kind)
		assert.Equal(t, "https://preview.myapp.workers.dev/", decision.Location)
	})
}
