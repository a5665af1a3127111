// Package digest builds the periodic editorial digest (pending review count
// plus articles approved since the previous run) and fans it out to the
// configured notifiers.
package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/infra/notifier"
	"sportsdesk/internal/observability/metrics"
	"sportsdesk/internal/repository"
)

// Service is safe for concurrent use; runs are serialized.
type Service struct {
	Articles  repository.ArticleRepository
	Notifiers []notifier.Notifier

	// BaseURL prefixes article links ("https://news.example.com"). Links are
	// omitted when empty.
	BaseURL string
	// Lookback bounds the first run, which has no previous run to start from.
	Lookback time.Duration
	// SkipEmpty suppresses delivery when nothing was approved and nothing is pending.
	SkipEmpty bool
	Now       func() time.Time

	mu      sync.Mutex
	lastRun time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Build assembles the digest covering (since, until].
func (s *Service) Build(ctx context.Context, since, until time.Time) (*entity.Digest, error) {
	pending, err := s.Articles.CountPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("count pending articles: %w", err)
	}
	approved, err := s.Articles.ListApprovedBetween(ctx, since, until)
	if err != nil {
		return nil, fmt.Errorf("list approved articles: %w", err)
	}

	d := &entity.Digest{
		GeneratedAt:  until,
		Since:        since,
		PendingCount: pending,
		Approved:     make([]entity.DigestItem, 0, len(approved)),
	}
	for _, a := range approved {
		item := entity.DigestItem{
			ArticleID: a.Article.ID,
			Title:     a.Article.DisplayName(deref(a.LeagueName), deref(a.TeamName)),
			Author:    a.AuthorUsername,
			URL:       s.articleURL(a.Article.ID),
		}
		if a.Article.ApprovedAt != nil {
			item.ApprovedAt = *a.Article.ApprovedAt
		}
		d.Approved = append(d.Approved, item)
	}
	return d, nil
}

// Run builds the digest since the previous successful run and sends it to
// every notifier concurrently. Delivery failures are logged and counted; Run
// only fails when the digest could not be built or every notifier failed.
func (s *Service) Run(ctx context.Context) (*entity.Digest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 窓の終端はクエリ前に固定し、次回の開始点にもする
	until := s.now()
	since := s.lastRun
	if since.IsZero() {
		lookback := s.Lookback
		if lookback <= 0 {
			lookback = 24 * time.Hour
		}
		since = until.Add(-lookback)
	}

	d, err := s.Build(ctx, since, until)
	if err != nil {
		metrics.RecordDigestRun("failure")
		return nil, err
	}
	metrics.UpdateArticlesPendingReview(d.PendingCount)

	if s.SkipEmpty && d.IsEmpty() {
		s.lastRun = until
		metrics.RecordDigestRun("skipped")
		return d, nil
	}

	if err := s.send(ctx, d); err != nil {
		metrics.RecordDigestRun("failure")
		return d, err
	}

	s.lastRun = until
	metrics.RecordDigestRun("success")
	slog.InfoContext(ctx, "digest sent",
		slog.Int("approved", len(d.Approved)),
		slog.Int64("pending", d.PendingCount),
		slog.Time("since", since))
	return d, nil
}

func (s *Service) send(ctx context.Context, d *entity.Digest) error {
	if len(s.Notifiers) == 0 {
		return nil
	}

	errs := make([]error, len(s.Notifiers))
	var g errgroup.Group
	for i, n := range s.Notifiers {
		g.Go(func() error {
			err := n.NotifyDigest(ctx, d)
			metrics.RecordDigestDelivery(n.Name(), err == nil)
			if err != nil {
				slog.WarnContext(ctx, "digest delivery failed",
					slog.String("channel", n.Name()),
					slog.Any("error", err))
				errs[i] = fmt.Errorf("%s: %w", n.Name(), err)
			}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed == len(s.Notifiers) {
		return fmt.Errorf("all notifiers failed: %w", errors.Join(errs...))
	}
	return nil
}

func (s *Service) articleURL(id int64) string {
	if s.BaseURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/article/%d/", strings.TrimRight(s.BaseURL, "/"), id)
}

// LastRun reports the time of the last successful run.
func (s *Service) LastRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
