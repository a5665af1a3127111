// Package feed implements the read side: home feed, article detail with the
// draft visibility rule, the review queue and the JSON listings. Nothing in
// this package writes.
package feed

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/observability/tracing"
	"sportsdesk/internal/repository"
)

// DraftDeniedMessage is shown to viewers who may not read a draft.
const DraftDeniedMessage = "You are not allowed to view this draft."

var (
	ErrArticleNotFound = fmt.Errorf("article %w", entity.ErrNotFound)
	ErrDraftHidden     = fmt.Errorf("%s: %w", DraftDeniedMessage, entity.ErrAccessDenied)
)

// Home is the data behind the front page.
type Home struct {
	Articles []repository.ArticleWithRefs
	Leagues  []*entity.League
}

type Service struct {
	Articles repository.ArticleRepository
	Leagues  repository.LeagueRepository
	Teams    repository.TeamRepository
}

// Home returns approved articles, most recently approved first, together
// with every league for navigation.
func (s *Service) Home(ctx context.Context) (*Home, error) {
	ctx, span := tracing.StartSpan(ctx, "feed.Home")
	defer span.End()

	var out Home
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		articles, err := s.Articles.ListApproved(gctx)
		if err != nil {
			return fmt.Errorf("list approved articles: %w", err)
		}
		out.Articles = articles
		return nil
	})
	g.Go(func() error {
		leagues, err := s.Leagues.List(gctx)
		if err != nil {
			return fmt.Errorf("list leagues: %w", err)
		}
		out.Leagues = leagues
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApprovedArticles backs the JSON article listing. It runs the same query
// as Home so both return the same set in the same order.
func (s *Service) ApprovedArticles(ctx context.Context) ([]repository.ArticleWithRefs, error) {
	articles, err := s.Articles.ListApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("list approved articles: %w", err)
	}
	return articles, nil
}

// Detail returns the article if viewer may read it. Drafts are visible to
// their author and to editors only; a nil viewer is anonymous.
func (s *Service) Detail(ctx context.Context, id int64, viewer *entity.User) (*repository.ArticleWithRefs, error) {
	if id <= 0 {
		return nil, ErrArticleNotFound
	}
	a, err := s.Articles.GetWithRefs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if a == nil {
		return nil, ErrArticleNotFound
	}
	if !a.Article.VisibleTo(viewer) {
		return nil, ErrDraftHidden
	}
	return a, nil
}

// PendingReview lists unapproved articles, newest first. The queue is open
// to everyone.
func (s *Service) PendingReview(ctx context.Context) ([]repository.ArticleWithRefs, error) {
	articles, err := s.Articles.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending articles: %w", err)
	}
	return articles, nil
}

func (s *Service) ListLeagues(ctx context.Context) ([]*entity.League, error) {
	leagues, err := s.Leagues.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	return leagues, nil
}

// TeamsForLeague returns an empty slice for leagues that have no teams or
// do not exist.
func (s *Service) TeamsForLeague(ctx context.Context, leagueID int64) ([]*entity.Team, error) {
	teams, err := s.Teams.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	if teams == nil {
		teams = []*entity.Team{}
	}
	return teams, nil
}

// IsDraftHidden reports whether err is the draft visibility denial.
func IsDraftHidden(err error) bool {
	return errors.Is(err, ErrDraftHidden)
}
