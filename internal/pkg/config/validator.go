// Package config holds the environment loaders and validators shared by the
// worker and the admin CLI. Loaders are fail-open: an invalid value falls
// back to the default and the caller is told which field fell back.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser accepts the standard five-field form only.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("invalid cron schedule: cannot be empty")
	}
	if _, err := cronParser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// ValidateTimezone accepts any IANA name time.LoadLocation knows.
// "Local" is rejected because it differs between hosts.
func ValidateTimezone(tz string) error {
	if tz == "" {
		return fmt.Errorf("invalid timezone: cannot be empty")
	}
	if tz == "Local" {
		return fmt.Errorf("invalid timezone: Local is host dependent")
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return nil
}

func ValidateIntRange(v, lo, hi int) error {
	if lo > hi {
		return fmt.Errorf("invalid range: min (%d) > max (%d)", lo, hi)
	}
	if v < lo || v > hi {
		return fmt.Errorf("value %d out of range [%d, %d]", v, lo, hi)
	}
	return nil
}

func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}
	return nil
}

func ValidateDuration(d, lo, hi time.Duration) error {
	if lo > hi {
		return fmt.Errorf("invalid range: min (%v) > max (%v)", lo, hi)
	}
	if d < lo || d > hi {
		return fmt.Errorf("duration %v out of range [%v, %v]", d, lo, hi)
	}
	return nil
}

// ValidateWebhookURL requires an absolute https URL. An empty value is
// allowed so a disabled channel needs no URL.
func ValidateWebhookURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	if u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("webhook url must be an absolute https URL")
	}
	return nil
}
