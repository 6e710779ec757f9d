package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quinncodes/orgspace/pkg/config"
	"github.com/quinncodes/orgspace/pkg/domains"
	"github.com/quinncodes/orgspace/pkg/environment"
	"github.com/quinncodes/orgspace/pkg/httpmetrics"
	"github.com/quinncodes/orgspace/pkg/httpserver"
	"github.com/quinncodes/orgspace/pkg/httpx"
	"github.com/quinncodes/orgspace/pkg/lazy"
	"github.com/quinncodes/orgspace/pkg/logger"
	"github.com/quinncodes/orgspace/pkg/pg"
	"github.com/quinncodes/orgspace/pkg/redis"
	"github.com/quinncodes/orgspace/svc/admin"
	"github.com/quinncodes/orgspace/svc/identity"
	"github.com/quinncodes/orgspace/svc/org"
	"github.com/quinncodes/orgspace/svc/tenant"
)

type appConfig struct {
	Env           environment.Environment `env:"APP_ENV" envDefault:"development"`
	CacheTTL      time.Duration           `env:"TENANT_CACHE_TTL" envDefault:"5m"`
	UseRedisCache bool                    `env:"TENANT_CACHE_REDIS" envDefault:"false"`
	RunMigrations bool                    `env:"RUN_MIGRATIONS" envDefault:"true"`
}

func main() {
	ctx := context.Background()

	var (
		appCfg  appConfig
		logCfg  logger.Config
		httpCfg httpserver.Config
		pgCfg   pg.Config
		redCfg  redis.Config
		idCfg   identity.Config
		domCfg  domains.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&logCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redCfg)
	config.MustLoad(&idCfg)
	config.MustLoad(&domCfg)

	log := logger.NewFromConfig(logCfg, logger.WithContextExtractors(
		environment.LoggerExtractor(),
		tenant.LoggerExtractor(),
		identity.LoggerExtractor(),
	))

	idClient, err := identity.NewClient(idCfg)
	if err != nil {
		log.Error("failed to construct identity client", "error", err)
		os.Exit(1)
	}

	svcs := newServiceContainer(appCfg, pgCfg, redCfg, domCfg, idClient, log)

	tenantDeps := lazy.New(func(ctx context.Context) (*tenant.Deps, error) {
		s, err := svcs.Get(ctx)
		if err != nil {
			return nil, err
		}
		return s.tenantDeps, nil
	})

	hostnames := tenant.NewHostnameResolver(domCfg)
	engine := tenant.NewEngine(domCfg)
	metrics := httpmetrics.New()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(environment.Middleware(appCfg.Env))
	r.Use(tenant.Middleware(tenantDeps, hostnames, engine, tenant.WithLogger(log)))

	r.Get("/", homeHandler)
	r.Get("/dashboard", dashboardHandler)

	r.Route("/user", func(u chi.Router) {
		u.Get("/login", pageHandler("login"))
		u.Get("/signup", pageHandler("signup"))
	})

	r.Mount("/orgs", lazyHandler(svcs, func(s *services) http.Handler { return s.orgRouter }))
	r.Mount("/admin/api", admin.Router(idClient.Admin))

	r.Route("/api", func(api chi.Router) {
		api.Handle("/auth/*", idClient.Proxy())
		api.Get("/me", meHandler)
	})

	r.Handle("/metrics", metrics.Handler())
	r.Get("/health", healthHandler(svcs))

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	if err := srv.Run(ctx, r); err != nil {
		log.Error("http server exited with error", "error", err)
		os.Exit(1)
	}
}

// services is the process-lifetime container constructed on the first
// request that needs it. Construction failures are not sticky: the
// next request retries.
type services struct {
	tenantDeps *tenant.Deps
	orgRouter  http.Handler
	pgHealth   func(context.Context) error
}

func newServiceContainer(
	appCfg appConfig,
	pgCfg pg.Config,
	redCfg redis.Config,
	domCfg domains.Config,
	idClient *identity.Client,
	log *slog.Logger,
) *lazy.Value[*services] {
	return lazy.New(func(ctx context.Context) (*services, error) {
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, err
		}

		if appCfg.RunMigrations {
			if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
				pool.Close()
				return nil, err
			}
		}

		var cache tenant.Cache = tenant.NewMemoryCache(appCfg.CacheTTL)
		if appCfg.UseRedisCache {
			client, err := redis.Connect(ctx, redCfg)
			if err != nil {
				pool.Close()
				return nil, err
			}
			cache = tenant.NewRedisCache(client, appCfg.CacheTTL)
		}

		store := org.NewPGStore(pool)
		resolver := tenant.NewResolver(store,
			tenant.WithCache(cache),
			tenant.WithResolverLogger(log),
		)
		orgSvc := org.NewService(store, domCfg, org.WithLogger(log))

		log.InfoContext(ctx, "services initialized")

		return &services{
			tenantDeps: &tenant.Deps{Identity: idClient, Resolver: resolver},
			orgRouter:  org.Router(orgSvc),
			pgHealth:   pg.Healthcheck(pool),
		}, nil
	})
}

// lazyHandler defers to a handler owned by the service container. The
// pipeline middleware has already forced initialization by the time a
// routed request gets here, so the error path is a backstop.
func lazyHandler(svcs *lazy.Value[*services], pick func(*services) http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := svcs.Get(r.Context())
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "service initialization failed")
			return
		}
		pick(s).ServeHTTP(w, r)
	})
}

func homeHandler(w http.ResponseWriter, r *http.Request) {
	rc, ok := tenant.FromContext(r.Context())
	if ok && rc.HasTenant() {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	page := map[string]any{"page": "landing"}
	if user, ok := identity.UserFromContext(r.Context()); ok {
		page["user"] = user
	}
	httpx.JSON(w, http.StatusOK, page)
}

func dashboardHandler(w http.ResponseWriter, r *http.Request) {
	rc, ok := tenant.FromContext(r.Context())
	if !ok || !rc.HasTenant() {
		// Dashboard only exists on tenant subdomains.
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"page":         "dashboard",
		"organization": rc.Org,
		"role":         rc.Role,
		"user":         rc.User(),
	})
}

func meHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func pageHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := map[string]any{"page": name}
		if slug := r.URL.Query().Get("slug"); slug != "" {
			page["slug"] = slug
		}
		httpx.JSON(w, http.StatusOK, page)
	}
}

func healthHandler(svcs *lazy.Value[*services]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{"status": "ok", "initialized": svcs.Ready()}
		if svcs.Ready() {
			s, err := svcs.Get(r.Context())
			if err == nil {
				if err := s.pgHealth(r.Context()); err != nil {
					status["status"] = "degraded"
					status["database"] = err.Error()
					httpx.JSON(w, http.StatusServiceUnavailable, status)
					return
				}
				status["database"] = "ok"
			}
		}
		httpx.JSON(w, http.StatusOK, status)
	}
}
