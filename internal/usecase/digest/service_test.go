package digest_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/infra/notifier"
	"sportsdesk/internal/observability/metrics"
	"sportsdesk/internal/repository"
	"sportsdesk/internal/usecase/digest"
)

/* ───────── スタブ ───────── */

type stubArticles struct {
	repository.ArticleRepository
	pending  int64
	approved []repository.ArticleWithRefs
	err      error

	mu     sync.Mutex
	sinces []time.Time
	untils []time.Time
}

func (s *stubArticles) CountPending(context.Context) (int64, error) { return s.pending, s.err }
func (s *stubArticles) ListApprovedBetween(_ context.Context, since, until time.Time) ([]repository.ArticleWithRefs, error) {
	s.mu.Lock()
	s.sinces = append(s.sinces, since)
	s.untils = append(s.untils, until)
	approved := s.approved
	s.mu.Unlock()
	var out []repository.ArticleWithRefs
	for _, a := range approved {
		if a.Article.ApprovedAt.After(since) && !a.Article.ApprovedAt.After(until) {
			out = append(out, a)
		}
	}
	return out, s.err
}

type fakeNotifier struct {
	name string
	err  error

	mu  sync.Mutex
	got []*entity.Digest
}

func (f *fakeNotifier) Name() string { return f.name }
func (f *fakeNotifier) NotifyDigest(_ context.Context, d *entity.Digest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, d)
	return f.err
}

var base = time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC)

func strp(s string) *string { return &s }

func approvedAt(id int64, title string, at time.Time, league, team *string) repository.ArticleWithRefs {
	return repository.ArticleWithRefs{
		Article:        &entity.Article{ID: id, Title: title, Approved: true, ApprovedAt: &at},
		AuthorUsername: "jo",
		LeagueName:     league,
		TeamName:       team,
	}
}

/* ───────── Build ───────── */

func TestBuild(t *testing.T) {
	repo := &stubArticles{
		pending: 3,
		approved: []repository.ArticleWithRefs{
			approvedAt(7, "Derby", base.Add(-time.Hour), strp("Premier League"), strp("Arsenal")),
			approvedAt(8, "Draft pick", base.Add(-2*time.Hour), strp("NBA"), nil),
			approvedAt(9, "Opinion", base.Add(-3*time.Hour), nil, nil),
		},
	}
	svc := &digest.Service{Articles: repo, BaseURL: "https://news.example.com/", Now: func() time.Time { return base }}

	d, err := svc.Build(context.Background(), base.Add(-24*time.Hour), base)
	require.NoError(t, err)

	assert.Equal(t, int64(3), d.PendingCount)
	assert.Equal(t, base, d.GeneratedAt)
	require.Len(t, d.Approved, 3)
	assert.Equal(t, "Derby [Arsenal]", d.Approved[0].Title)
	assert.Equal(t, "Draft pick [NBA]", d.Approved[1].Title)
	assert.Equal(t, "Opinion [General]", d.Approved[2].Title)
	assert.Equal(t, "https://news.example.com/article/7/", d.Approved[0].URL)
	assert.Equal(t, "jo", d.Approved[0].Author)
	assert.Equal(t, base.Add(-time.Hour), d.Approved[0].ApprovedAt)
}

func TestBuild_NoBaseURL(t *testing.T) {
	repo := &stubArticles{approved: []repository.ArticleWithRefs{approvedAt(1, "x", base, nil, nil)}}
	svc := &digest.Service{Articles: repo, Now: func() time.Time { return base }}

	d, err := svc.Build(context.Background(), base.Add(-time.Minute), base)
	require.NoError(t, err)
	assert.Empty(t, d.Approved[0].URL)
}

/* ───────── Run ───────── */

func TestRun_FansOutAndAdvancesWindow(t *testing.T) {
	now := base
	repo := &stubArticles{pending: 2, approved: []repository.ArticleWithRefs{approvedAt(1, "x", base.Add(-time.Hour), nil, nil)}}
	slack := &fakeNotifier{name: "slack"}
	discord := &fakeNotifier{name: "discord"}
	svc := &digest.Service{
		Articles:  repo,
		Notifiers: []notifier.Notifier{slack, discord},
		Lookback:  6 * time.Hour,
		Now:       func() time.Time { return now },
	}

	d, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, d.Approved, 1)
	assert.Len(t, slack.got, 1)
	assert.Len(t, discord.got, 1)
	assert.Equal(t, base.Add(-6*time.Hour), repo.sinces[0])
	assert.Equal(t, base, svc.LastRun())
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.ArticlesPendingReview))

	now = base.Add(24 * time.Hour)
	d, err = svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, base, repo.sinces[1], "second run starts where the first ended")
	assert.Empty(t, d.Approved)
}

func TestRun_WindowEndIsFixedBeforeQuerying(t *testing.T) {
	// 時計はクエリのたびに進む: 終端を後から取ると隙間ができる
	now := base
	clock := func() time.Time {
		cur := now
		now = now.Add(time.Minute)
		return cur
	}
	repo := &stubArticles{}
	svc := &digest.Service{Articles: repo, Lookback: time.Hour, Now: clock}

	d, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, base, repo.untils[0])
	assert.Equal(t, base, d.GeneratedAt)
	assert.Equal(t, base, svc.LastRun())

	// 1 回目のクエリ後、2 回目の実行前に承認された記事
	repo.mu.Lock()
	repo.approved = []repository.ArticleWithRefs{approvedAt(5, "Late approval", base.Add(30*time.Second), nil, nil)}
	repo.mu.Unlock()

	d, err = svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, base, repo.sinces[1])
	require.Len(t, d.Approved, 1)
	assert.Equal(t, int64(5), d.Approved[0].ArticleID)
}

func TestRun_PartialFailureStillSucceeds(t *testing.T) {
	repo := &stubArticles{pending: 1}
	bad := &fakeNotifier{name: "slack", err: errors.New("503")}
	good := &fakeNotifier{name: "discord"}
	svc := &digest.Service{Articles: repo, Notifiers: []notifier.Notifier{bad, good}, Now: func() time.Time { return base }}

	before := testutil.ToFloat64(metrics.DigestDeliveriesTotal.WithLabelValues("slack", "failure"))
	_, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.DigestDeliveriesTotal.WithLabelValues("slack", "failure")))
	assert.Equal(t, base, svc.LastRun())
}

func TestRun_AllNotifiersFail(t *testing.T) {
	repo := &stubArticles{pending: 1}
	svc := &digest.Service{
		Articles:  repo,
		Notifiers: []notifier.Notifier{&fakeNotifier{name: "slack", err: errors.New("boom")}},
		Now:       func() time.Time { return base },
	}

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "slack: boom")
	assert.True(t, svc.LastRun().IsZero(), "window is not advanced on failure")
}

func TestRun_SkipEmpty(t *testing.T) {
	n := &fakeNotifier{name: "slack"}
	svc := &digest.Service{
		Articles:  &stubArticles{},
		Notifiers: []notifier.Notifier{n},
		SkipEmpty: true,
		Now:       func() time.Time { return base },
	}

	d, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, d.IsEmpty())
	assert.Empty(t, n.got)
	assert.Equal(t, base, svc.LastRun())
}

func TestRun_BuildError(t *testing.T) {
	svc := &digest.Service{Articles: &stubArticles{err: errors.New("db gone")}, Now: func() time.Time { return base }}

	_, err := svc.Run(context.Background())
	assert.ErrorContains(t, err, "db gone")
}
