// Command api serves the sportsdesk pages, the JSON API and the write API.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sportsdesk/internal/config"
	"sportsdesk/internal/infra/adapter/persistence"
	"sportsdesk/internal/infra/db"
	"sportsdesk/internal/observability/logging"
	"sportsdesk/internal/observability/tracing"
	"sportsdesk/internal/resilience/circuitbreaker"
)

func main() {
	logger := initLogger()

	cfg, err := config.LoadAPI()
	if err != nil {
		logger.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	shutdownTracing, err := tracing.Setup(context.Background(), "sportsdesk-api")
	if err != nil {
		logger.Warn("tracing disabled", slog.Any("error", err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	database, err := initDatabase(logger, cfg)
	if err != nil {
		logger.Error("database setup failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	// リポジトリはサーキットブレーカー経由で DB にアクセスする
	breaker := circuitbreaker.NewDB(database)
	repos, err := persistence.New(cfg.DB.Driver, breaker)
	if err != nil {
		logger.Error("repository setup failed", slog.Any("error", err))
		os.Exit(1)
	}

	components, err := setupServer(logger, cfg, database, breaker, repos)
	if err != nil {
		logger.Error("server setup failed", slog.Any("error", err))
		os.Exit(1)
	}

	runServer(logger, cfg, components)
}

func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the pool, migrates when configured and applies the
// optional taxonomy seed.
func initDatabase(logger *slog.Logger, cfg *config.APIConfig) (*sql.DB, error) {
	database, err := db.OpenDSN(cfg.DB.Driver, cfg.DB.URL, cfg.DB.Pool())
	if err != nil {
		return nil, err
	}

	if cfg.MigrateOnStart {
		if err := db.MigrateUp(database, cfg.DB.Driver); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	if cfg.SeedFile != "" {
		seed, err := db.LoadSeed(cfg.SeedFile)
		if err != nil {
			_ = database.Close()
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		leagues, teams, err := db.ApplySeed(ctx, database, cfg.DB.Driver, seed)
		if err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
		logger.Info("seed applied",
			slog.String("file", cfg.SeedFile),
			slog.Int("leagues", leagues),
			slog.Int("teams", teams))
	}
	return database, nil
}

// runServer serves until SIGINT/SIGTERM, then drains in-flight requests.
func runServer(logger *slog.Logger, cfg *config.APIConfig, components *ServerComponents) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, l := range components.Limiters {
		go l.StartCleanup(ctx, cfg.RateLimit.CleanupInterval, cfg.RateLimit.IdleTTL)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Slowloris 対策
		IdleTimeout:       120 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", cfg.Version),
			slog.String("db_driver", cfg.DB.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
