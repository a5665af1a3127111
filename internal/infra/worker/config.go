// Package worker holds the digest worker's configuration, metrics and
// health endpoints.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sportsdesk/internal/pkg/config"
)

// ChannelConfig enables one webhook destination.
type ChannelConfig struct {
	Enabled    bool
	WebhookURL string
}

// WorkerConfig controls the digest schedule and delivery.
type WorkerConfig struct {
	// CronSchedule is a five-field cron expression evaluated in Timezone.
	CronSchedule string
	Timezone     string
	// Lookback bounds the first digest after a restart.
	Lookback   time.Duration
	JobTimeout time.Duration
	SkipEmpty  bool
	// BaseURL is used to build article links; links are omitted when empty.
	BaseURL       string
	NotifyTimeout time.Duration
	MetricsAddr   string

	Slack   ChannelConfig
	Discord ChannelConfig
}

func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:  "0 7 * * *",
		Timezone:      "UTC",
		Lookback:      24 * time.Hour,
		JobTimeout:    5 * time.Minute,
		NotifyTimeout: 10 * time.Second,
		MetricsAddr:   ":9091",
	}
}

func validateLookback(d time.Duration) error {
	return config.ValidateDuration(d, time.Minute, 30*24*time.Hour)
}

func validateJobTimeout(d time.Duration) error {
	return config.ValidateDuration(d, 10*time.Second, time.Hour)
}

func validateNotifyTimeout(d time.Duration) error {
	return config.ValidateDuration(d, time.Second, 2*time.Minute)
}

func validateChannel(name string, c ChannelConfig) error {
	if !c.Enabled {
		return nil
	}
	if c.WebhookURL == "" {
		return fmt.Errorf("%s: enabled without a webhook url", name)
	}
	if err := config.ValidateWebhookURL(c.WebhookURL); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Validate reports every invalid field at once.
func (c *WorkerConfig) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := validateLookback(c.Lookback); err != nil {
		errs = append(errs, fmt.Errorf("lookback: %w", err))
	}
	if err := validateJobTimeout(c.JobTimeout); err != nil {
		errs = append(errs, fmt.Errorf("job timeout: %w", err))
	}
	if err := validateNotifyTimeout(c.NotifyTimeout); err != nil {
		errs = append(errs, fmt.Errorf("notify timeout: %w", err))
	}
	if c.MetricsAddr == "" {
		errs = append(errs, errors.New("metrics addr: cannot be empty"))
	}
	if err := validateChannel("slack", c.Slack); err != nil {
		errs = append(errs, err)
	}
	if err := validateChannel("discord", c.Discord); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location returns the schedule's time zone. Validate has already checked it.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfigFromEnv reads the worker configuration. It never fails: each
// invalid value is replaced by its default, logged and counted. A channel
// that is enabled without a usable https webhook URL is disabled.
//
// Environment variables:
//   - DIGEST_CRON (default "0 7 * * *")
//   - DIGEST_TIMEZONE (default "UTC")
//   - DIGEST_LOOKBACK (default 24h)
//   - DIGEST_TIMEOUT (default 5m)
//   - DIGEST_SKIP_EMPTY (default false)
//   - SITE_BASE_URL
//   - NOTIFY_TIMEOUT (default 10s)
//   - WORKER_METRICS_ADDR (default ":9091")
//   - SLACK_ENABLED, SLACK_WEBHOOK_URL, DISCORD_ENABLED, DISCORD_WEBHOOK_URL
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) *WorkerConfig {
	cfg := DefaultConfig()
	fellBack := false

	note := func(field, warning string) {
		fellBack = true
		metrics.RecordFallback(field)
		logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}

	apply(&cfg.CronSchedule, "cron_schedule", config.LoadString("DIGEST_CRON", cfg.CronSchedule, config.ValidateCronSchedule), note)
	apply(&cfg.Timezone, "timezone", config.LoadString("DIGEST_TIMEZONE", cfg.Timezone, config.ValidateTimezone), note)
	apply(&cfg.Lookback, "lookback", config.LoadDuration("DIGEST_LOOKBACK", cfg.Lookback, validateLookback), note)
	apply(&cfg.JobTimeout, "job_timeout", config.LoadDuration("DIGEST_TIMEOUT", cfg.JobTimeout, validateJobTimeout), note)
	apply(&cfg.SkipEmpty, "skip_empty", config.LoadBool("DIGEST_SKIP_EMPTY", cfg.SkipEmpty), note)
	apply(&cfg.NotifyTimeout, "notify_timeout", config.LoadDuration("NOTIFY_TIMEOUT", cfg.NotifyTimeout, validateNotifyTimeout), note)
	cfg.BaseURL = config.GetEnvString("SITE_BASE_URL", "")
	cfg.MetricsAddr = config.GetEnvString("WORKER_METRICS_ADDR", cfg.MetricsAddr)

	cfg.Slack = loadChannel("slack", "SLACK", note)
	cfg.Discord = loadChannel("discord", "DISCORD", note)

	metrics.SetFallbackActive(fellBack)
	metrics.RecordLoadTimestamp()
	return &cfg
}

func apply[T any](dst *T, field string, r config.Result[T], note func(field, warning string)) {
	*dst = r.Value
	if r.FallbackApplied {
		note(field, r.Warning)
	}
}

func loadChannel(name, prefix string, note func(field, warning string)) ChannelConfig {
	enabled := config.LoadBool(prefix+"_ENABLED", false)
	if enabled.FallbackApplied {
		note(name+"_enabled", enabled.Warning)
	}
	c := ChannelConfig{
		Enabled:    enabled.Value,
		WebhookURL: config.GetEnvString(prefix+"_WEBHOOK_URL", ""),
	}
	if err := validateChannel(name, c); err != nil {
		note(name+"_webhook_url", err.Error()+"; channel disabled")
		return ChannelConfig{}
	}
	return c
}
