// Command worker sends the editorial digest on a cron schedule.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"sportsdesk/internal/infra/adapter/persistence"
	"sportsdesk/internal/infra/db"
	workerPkg "sportsdesk/internal/infra/worker"
	"sportsdesk/internal/observability/logging"
	"sportsdesk/internal/resilience/circuitbreaker"
	"sportsdesk/internal/usecase/digest"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	database, driver, err := db.OpenFromEnv()
	if err != nil {
		logger.Error("database unavailable", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	repos, err := persistence.New(driver, circuitbreaker.NewDB(database))
	if err != nil {
		logger.Error("repository setup failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 設定は fail-open: 不正値はデフォルトに戻してメトリクスに記録
	workerMetrics := workerPkg.NewWorkerMetrics()
	if err := workerMetrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register worker metrics", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Duration("lookback", cfg.Lookback),
		slog.Duration("job_timeout", cfg.JobTimeout),
		slog.Bool("skip_empty", cfg.SkipEmpty),
		slog.String("metrics_addr", cfg.MetricsAddr))

	notifiers := buildNotifiers(logger, cfg)
	svc := &digest.Service{
		Articles:  repos.Articles,
		Notifiers: notifiers,
		BaseURL:   cfg.BaseURL,
		Lookback:  cfg.Lookback,
		SkipEmpty: cfg.SkipEmpty,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	healthServer := workerPkg.NewHealthServer(cfg.MetricsAddr, logger, notifiers, nil)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	c := cron.New(cron.WithLocation(cfg.Location()))
	if _, err := c.AddFunc(cfg.CronSchedule, digestJob(logger, svc, cfg, workerMetrics)); err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()
	healthServer.SetReady(true)
	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))

	<-ctx.Done()
	logger.Info("shutting down worker")
	healthServer.SetReady(false)

	// 実行中のジョブを待つ (JobTimeout が上限)
	select {
	case <-c.Stop().Done():
	case <-time.After(cfg.JobTimeout):
		logger.Warn("digest job still running at shutdown")
	}
	logger.Info("worker stopped")
}
