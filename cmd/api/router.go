package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/rolegate/rolegate/internal/config"
	"github.com/rolegate/rolegate/internal/handler"
	"github.com/rolegate/rolegate/internal/metrics"
	"github.com/rolegate/rolegate/internal/middleware"
	"github.com/rolegate/rolegate/internal/quota"
)

// sessionStore is everything the session middleware and admin gate need
// from the user repository.
type sessionStore interface {
	middleware.UserLookup
	middleware.AdminAuthorizer
}

// sessionCache is everything the router needs from Redis.
type sessionCache interface {
	middleware.RevocationChecker
	middleware.UserCache
	middleware.LoginLimiter
}

type routerDeps struct {
	home     *handler.Handler
	health   *handler.HealthHandler
	admin    *handler.AdminHandler
	auth     *handler.AuthHandler
	metrics  *handler.MetricsHandler
	sessions middleware.SessionVerifier
	repo     sessionStore
	cache    sessionCache
	quota    quota.Quota
	recorder metrics.Recorder
	proxies  *middleware.TrustedProxies
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	// Global middleware
	r.Use(middleware.RealIP(deps.proxies))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger, deps.recorder))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	// Probes and metrics (no session)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)
	r.Get("/metrics", deps.metrics.Metrics)

	session := middleware.Session(middleware.SessionConfig{
		Logger:     logger,
		CookieName: cfg.SessionCookieName,
		Verifier:   deps.sessions,
		Revocation: deps.cache,
		Users:      deps.repo,
		Cache:      deps.cache,
	})

	r.With(session).Get("/", deps.home.Home)

	r.Route("/api", func(r chi.Router) {
		r.Use(session)
		r.Use(middleware.Quota(middleware.QuotaConfig{
			Logger:  logger,
			Quota:   deps.quota,
			Metrics: deps.recorder,
			Enabled: cfg.QuotaEnabled,
		}))

		r.Route("/admin", func(r chi.Router) {
			r.Get("/check", deps.admin.Check)
			r.With(middleware.RequireAdmin(deps.repo, logger)).Get("/stats", deps.admin.Stats)
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimitLogin(middleware.RateLimitConfig{
				Logger:  logger,
				Limiter: deps.cache,
				Enabled: cfg.LoginRateLimitEnabled,
				RPS:     cfg.LoginRateLimitRPS,
				Burst:   cfg.LoginRateLimitBurst,
			})).Post("/login", deps.auth.Login)
			r.Post("/logout", deps.auth.Logout)
			r.With(middleware.RequireSession()).Get("/me", deps.auth.Me)
		})
	})

	r.NotFound(deps.home.NotFound)
	r.MethodNotAllowed(deps.home.MethodNotAllowed)

	return r
}
