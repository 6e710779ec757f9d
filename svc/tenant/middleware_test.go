package tenant_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quinncodes/orgspace/pkg/environment"
	"github.com/quinncodes/orgspace/pkg/lazy"
	"github.com/quinncodes/orgspace/svc/identity"
	"github.com/quinncodes/orgspace/svc/org"
	"github.com/quinncodes/orgspace/svc/tenant"
)

// mockProvider is a testify mock of identity.Provider.
type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Resolve(ctx context.Context, headers http.Header) (*identity.Auth, error) {
	args := m.Called(ctx, headers)
	if v := args.Get(0); v != nil {
		return v.(*identity.Auth), args.Error(1)
	}
	return nil, args.Error(1)
}

func newPipeline(provider identity.Provider, store org.Store, opts ...tenant.MiddlewareOption) func(http.Handler) http.Handler {
	deps := lazy.New(func(ctx context.Context) (*tenant.Deps, error) {
		return &tenant.Deps{
			Identity: provider,
			Resolver: tenant.NewResolver(store),
		}, nil
	})
	return tenant.Middleware(deps, tenant.NewHostnameResolver(testDomains()), tenant.NewEngine(testDomains()), opts...)
}

func withEnv(env environment.Environment, next http.Handler) http.Handler {
	return environment.Middleware(env)(next)
}

func okHandler(t *testing.T, check func(t *testing.T, r *http.Request)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(t, r)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_Pipeline(t *testing.T) {
	t.Parallel()

	t.Run("anonymous visitor to live tenant redirects to login", func(t *testing.T) {
		t.Parallel()

		provider := new(mockProvider)
		provider.On("Resolve", mock.Anything, mock.Anything).Return(nil, nil).Once()

		store := new(mockStore)
		store.On("ResolveBySlug", mock.Anything, "acme", (*uuid.UUID)(nil)).
			Return(testOrg("acme"), nil, nil).Once()

		handler := withEnv(environment.Production,
			newPipeline(provider, store)(okHandler(t, nil)))

		req := httptest.NewRequest("GET", "http://acme.example.com/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/user/login", w.Header().Get("Location"))
		provider.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("unknown tenant redirects to creation flow with suggested slug", func(t *testing.T) {
		t.Parallel()

		provider := new(mockProvider)
		provider.On("Resolve", mock.Anything, mock.Anything).Return(nil, nil).Once()

		store := new(mockStore)
		store.On("ResolveBySlug", mock.Anything, "ghost", (*uuid.UUID)(nil)).
			Return(nil, nil, org.ErrNotFound).Once()

		handler := withEnv(environment.Production,
			newPipeline(provider, store)(okHandler(t, nil)))

		req := httptest.NewRequest("GET", "http://ghost.example.com/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://example.com/orgs/new?suggested=ghost", w.Header().Get("Location"))
		store.AssertExpectations(t)
	})

	t.Run("authenticated user without membership redirects to login", func(t *testing.T) {
		t.Parallel()

		auth := authedUser()
		provider := new(mockProvider)
		provider.On("Resolve", mock.Anything, mock.Anything).Return(auth, nil).Once()

		store := new(mockStore)
		store.On("ResolveBySlug", mock.Anything, "acme", &auth.User.ID).
			Return(testOrg("acme"), nil, nil).Once()

		handler := withEnv(environment.Production,
			newPipeline(provider, store)(okHandler(t, nil)))

		req := httptest.NewRequest("GET", "http://acme.example.com/dashboard", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/user/login", w.Header().Get("Location"))
		store.AssertExpectations(t)
	})

	t.Run("member reaches the dashboard with resolved role", func(t *testing.T) {
		t.Parallel()

		auth := authedUser()
		adminRole := org.RoleAdmin
		provider := new(mockProvider)
		provider.On("Resolve", mock.Anything, mock.Anything).Return(auth, nil).Once()

		store := new(mockStore)
		store.On("ResolveBySlug", mock.Anything, "acme", &auth.User.ID).
			Return(testOrg("acme"), &adminRole, nil).Once()

		handler := withEnv(environment.Production,
			newPipeline(provider, store)(okHandler(t, func(t *testing.T, r *http.Request) {
				rc := tenant.MustFromContext(r.Context())
				assert.Equal(t, "acme", rc.Slug)
				require.NotNil(t, rc.Role)
				assert.Equal(t, org.RoleAdmin, *rc.Role)
				require.NotNil(t, rc.Org)
				assert.True(t, rc.HasUser())
			})))

		req := httptest.NewRequest("GET", "http://acme.example.com/dashboard", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		store.AssertExpectations(t)
	})

	t.Run("main domain request passes through without store lookup", func(t *testing.T) {
		t.Parallel()

		provider := new(mockProvider)
		provider.On("Resolve", mock.Anything, mock.Anything).Return(nil, nil).Once()

		store := new(mockStore)

		handler := withEnv(environment.Production,
			newPipeline(provider, store)(okHandler(t, func(t *testing.T, r *http.Request) {
				rc, ok := tenant.FromContext(r.Context())
				require.True(t, ok)
				assert.False(t, rc.HasTenant())
			})))

		req := httptest.NewRequest("GET", "http://example.com/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		store.AssertExpectations(t)
	})

	t.Run("provider failure degrades to anonymous instead of failing", func(t *testing.T) {
		t.Parallel()

		provider := new(mockProvider)
		provider.On("Resolve", mock.Anything, mock.Anything).
			Return(nil, identity.ErrProviderUnavailable).Once()

		store := new(mockStore)
		store.On("ResolveBySlug", mock.Anything, "acme", (*uuid.UUID)(nil)).
			Return(testOrg("acme"), nil, nil).Once()

		handler := withEnv(environment.Production,
			newPipeline(provider, store)(okHandler(t, nil)))

		req := httptest.NewRequest("GET", "http://acme.example.com/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		// Anonymous on a live tenant: login redirect, not a 5xx.
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/user/login", w.Header().Get("Location"))
	})

	t.Run("storage fault redirects to main domain", func(t *testing.T) {
		t.Parallel()

		provider := new(mockProvider)
		provider.On("Resolve", mock.Anything, mock.Anything).Return(nil, nil).Once()

		store := new(mockStore)
		store.On("ResolveBySlug", mock.Anything, "acme", (*uuid.UUID)(nil)).
			Return(nil, nil, errors.New("db down")).Once()

		handler := withEnv(environment.Production,
			newPipeline(provider, store)(okHandler(t, nil)))

		req := httptest.NewRequest("GET", "http://acme.example.com/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://example.com/", w.Header().Get("Location"))
	})
}

func TestMiddleware_SkipPaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
	}{
		{"api paths bypass tenant redirects", "http://ghost.example.com/api/me"},
		{"user paths bypass tenant redirects", "http://ghost.example.com/user/login"},
		{"org creation bypasses tenant redirects", "http://example.com/orgs/new?suggested=ghost"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider := new(mockProvider)
			provider.On("Resolve", mock.Anything, mock.Anything).Return(nil, nil).Once()

			// No store expectations: tenant resolution must not run.
			store := new(mockStore)

			handler := withEnv(environment.Production,
				newPipeline(provider, store)(okHandler(t, nil)))

			req := httptest.NewRequest("GET", tt.url, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			store.AssertExpectations(t)
		})
	}
}

func TestMiddleware_InitializationRetry(t *testing.T) {
	t.Parallel()

	var healthy atomic.Bool

	provider := new(mockProvider)
	provider.On("Resolve", mock.Anything, mock.Anything).Return(nil, nil)

	store := new(mockStore)

	deps := lazy.New(func(ctx context.Context) (*tenant.Deps, error) {
		if !healthy.Load() {
			return nil, errors.New("database unavailable")
		}
		return &tenant.Deps{Identity: provider, Resolver: tenant.NewResolver(store)}, nil
	})

	mw := tenant.Middleware(deps, tenant.NewHostnameResolver(testDomains()), tenant.NewEngine(testDomains()))
	handler := withEnv(environment.Production, mw(okHandler(t, nil)))

	req := httptest.NewRequest("GET", "http://example.com/", nil)

	// First request hits the failing build and is aborted.
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// Once the dependency recovers, a later request retries the build.
	healthy.Store(true)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
