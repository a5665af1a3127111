package notifier

import (
	"context"

	"sportsdesk/internal/domain/entity"
)

// NoOpNotifier is used when no webhook is enabled so the digest job
// still runs (and updates its gauges) without posting anywhere.
type NoOpNotifier struct{}

// NewNoOpNotifier creates a new NoOpNotifier instance.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

func (n *NoOpNotifier) Name() string { return "noop" }

// NotifyDigest does nothing and returns nil immediately.
func (n *NoOpNotifier) NotifyDigest(ctx context.Context, digest *entity.Digest) error {
	return nil
}
