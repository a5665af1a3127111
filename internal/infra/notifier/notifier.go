// Package notifier posts editorial digests to chat webhooks.
// It defines the Notifier interface so the digest job can fan out to Slack,
// Discord, or nothing at all without knowing which are configured.
package notifier

import (
	"context"

	"sportsdesk/internal/domain/entity"
)

// Notifier delivers a digest to one destination.
// Implementations handle rate limiting, retries and error logging internally.
type Notifier interface {
	// Name identifies the destination in logs and metrics ("slack", "discord").
	Name() string

	// NotifyDigest posts the digest. It returns an error only after all
	// retry attempts failed or the context was cancelled.
	NotifyDigest(ctx context.Context, digest *entity.Digest) error
}

// ChannelStatus is the health of one destination as reported by the worker.
type ChannelStatus struct {
	Name        string `json:"name"`
	BreakerOpen bool   `json:"circuit_breaker_open"`
}

// breakerReporter is implemented by the webhook notifiers.
type breakerReporter interface {
	BreakerOpen() bool
}

// Statuses reports every notifier. Notifiers without a breaker are always closed.
func Statuses(ns []Notifier) []ChannelStatus {
	out := make([]ChannelStatus, 0, len(ns))
	for _, n := range ns {
		st := ChannelStatus{Name: n.Name()}
		if b, ok := n.(breakerReporter); ok {
			st.BreakerOpen = b.BreakerOpen()
		}
		out = append(out, st)
	}
	return out
}
