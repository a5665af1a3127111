package main

import (
	"context"
	"log/slog"
	"time"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/handler/http/respond"
	"sportsdesk/internal/infra/notifier"
	workerPkg "sportsdesk/internal/infra/worker"
)

// digestRunner is satisfied by *digest.Service.
type digestRunner interface {
	Run(ctx context.Context) (*entity.Digest, error)
}

// buildNotifiers returns the enabled webhook channels, or a single no-op
// notifier so the digest is still built and logged.
func buildNotifiers(logger *slog.Logger, cfg *workerPkg.WorkerConfig) []notifier.Notifier {
	var ns []notifier.Notifier
	if cfg.Slack.Enabled {
		ns = append(ns, notifier.NewSlackNotifier(notifier.SlackConfig{
			Enabled:    true,
			WebhookURL: cfg.Slack.WebhookURL,
			Timeout:    cfg.NotifyTimeout,
		}))
	}
	if cfg.Discord.Enabled {
		ns = append(ns, notifier.NewDiscordNotifier(notifier.DiscordConfig{
			Enabled:    true,
			WebhookURL: cfg.Discord.WebhookURL,
			Timeout:    cfg.NotifyTimeout,
		}))
	}
	if len(ns) == 0 {
		logger.Info("no notification channel enabled, digests are only logged")
		return []notifier.Notifier{notifier.NewNoOpNotifier()}
	}
	for _, n := range ns {
		logger.Info("notification channel enabled", slog.String("channel", n.Name()))
	}
	return ns
}

// digestJob wraps one digest run with the job timeout and run metrics.
func digestJob(logger *slog.Logger, svc digestRunner, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) func() {
	return func() {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), cfg.JobTimeout)
		defer cancel()

		d, err := svc.Run(ctx)
		metrics.RecordJob(time.Since(start), err)
		if err != nil {
			// Webhook URL はトークンを含むのでマスクする
			logger.Error("digest job failed", slog.String("error", respond.SanitizeError(err)))
			return
		}
		logger.Info("digest job completed",
			slog.Int("approved", len(d.Approved)),
			slog.Int64("pending", d.PendingCount),
			slog.Duration("duration", time.Since(start)))
	}
}
