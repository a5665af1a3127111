package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"sportsdesk/internal/config"
	hhttp "sportsdesk/internal/handler/http"
	"sportsdesk/internal/handler/http/api"
	harticle "sportsdesk/internal/handler/http/article"
	hauth "sportsdesk/internal/handler/http/auth"
	hnewsletter "sportsdesk/internal/handler/http/newsletter"
	"sportsdesk/internal/handler/http/page"
	"sportsdesk/internal/handler/http/requestid"
	"sportsdesk/internal/handler/http/taxonomy"
	huser "sportsdesk/internal/handler/http/user"
	"sportsdesk/internal/infra/adapter/persistence"
	"sportsdesk/internal/observability/tracing"
	authservice "sportsdesk/internal/service/auth"
	articleUC "sportsdesk/internal/usecase/article"
	feedUC "sportsdesk/internal/usecase/feed"
	leagueUC "sportsdesk/internal/usecase/league"
	newsletterUC "sportsdesk/internal/usecase/newsletter"
	userUC "sportsdesk/internal/usecase/user"
)

// ServerComponents holds the handler plus the pieces main has to run or stop.
type ServerComponents struct {
	Handler  http.Handler
	Limiters []*hhttp.RateLimiter
}

// setupServer wires repositories, use cases and handlers into one handler.
// Middleware order, outermost first: request ID, panic recovery, tracing,
// access log, metrics, security headers, input limits, timeout, auth.
func setupServer(logger *slog.Logger, cfg *config.APIConfig, database *sql.DB, breaker hhttp.BreakerState, repos *persistence.Repositories) (*ServerComponents, error) {
	users := &userUC.Service{Repo: repos.Users}
	leagues := &leagueUC.Service{Leagues: repos.Leagues, Teams: repos.Teams}
	articles := &articleUC.Service{Repo: repos.Articles, Users: repos.Users, Leagues: repos.Leagues, Teams: repos.Teams}
	newsletters := &newsletterUC.Service{Repo: repos.Newsletters, Leagues: repos.Leagues}
	feed := &feedUC.Service{Articles: repos.Articles, Leagues: repos.Leagues, Teams: repos.Teams}

	tokens, err := authservice.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	renderer, err := page.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}

	// レート制限: トークン発行とユーザー登録のみ
	authLimiter := hhttp.NewRateLimiter(cfg.RateLimit.AuthLimit, cfg.RateLimit.AuthWindow)
	registerLimiter := hhttp.NewRateLimiter(cfg.RateLimit.RegisterLimit, cfg.RateLimit.RegisterWindow)
	authLimiter.TrustProxy = cfg.TrustProxy
	registerLimiter.TrustProxy = cfg.TrustProxy

	mux := http.NewServeMux()
	api.Register(mux, feed)
	harticle.Register(mux, articles, feed)
	taxonomy.Register(mux, leagues)
	hnewsletter.Register(mux, newsletters)
	huser.Register(mux, users, registerLimiter.Limit)
	page.Register(mux, &page.Handlers{Svc: feed, Renderer: renderer})

	mux.Handle("POST /auth/token", authLimiter.Limit(hauth.TokenHandler(tokens, cfg.CookieSecure)))
	mux.HandleFunc("POST /auth/logout", hauth.LogoutHandler)

	mux.Handle("GET /health", &hhttp.HealthHandler{DB: database, Breaker: breaker, Version: cfg.Version})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database, Breaker: breaker})
	mux.Handle("GET /live", hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	handler := hhttp.Chain(mux,
		requestid.Middleware,
		hhttp.Recover(logger),
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.MetricsMiddleware,
		hhttp.SecurityHeaders(hhttp.PagePolicy(), cfg.CSPReportOnly),
		hhttp.InputValidation(cfg.MaxBodyBytes),
		hhttp.Timeout(cfg.RequestTimeout),
		hauth.Authenticate(tokens, users),
	)

	return &ServerComponents{
		Handler:  handler,
		Limiters: []*hhttp.RateLimiter{authLimiter, registerLimiter},
	}, nil
}
