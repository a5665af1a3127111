// Package newsletter provides use cases for journalist newsletters. Unlike
// articles they are published immediately.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/observability/metrics"
	"sportsdesk/internal/repository"
)

var (
	ErrNewsletterNotFound = fmt.Errorf("newsletter %w", entity.ErrNotFound)
	ErrInvalidID          = fmt.Errorf("invalid newsletter ID: %w", entity.ErrInvalidInput)
	ErrNotJournalist      = fmt.Errorf("only journalists may write newsletters: %w", entity.ErrAccessDenied)
	ErrNotAuthor          = fmt.Errorf("only the author may delete this newsletter: %w", entity.ErrAccessDenied)
)

// Input carries the fields of a new newsletter.
type Input struct {
	Title    string
	Body     string
	LeagueID *int64
}

type Service struct {
	Repo    repository.NewsletterRepository
	Leagues repository.LeagueRepository
	Now     func() time.Time
}

// Create publishes a newsletter written by author.
func (s *Service) Create(ctx context.Context, author *entity.User, in Input) (*repository.NewsletterWithRefs, error) {
	if author == nil || !author.Role.CanAuthor() {
		return nil, ErrNotJournalist
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	n := &entity.Newsletter{
		Title:     strings.TrimSpace(in.Title),
		Body:      in.Body,
		AuthorID:  author.ID,
		LeagueID:  in.LeagueID,
		CreatedAt: now,
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}

	var leagueName *string
	if n.LeagueID != nil {
		l, err := s.Leagues.Get(ctx, *n.LeagueID)
		if err != nil {
			return nil, fmt.Errorf("get league: %w", err)
		}
		if l == nil {
			return nil, &entity.ValidationError{Field: "league", Message: fmt.Sprintf("league %d does not exist", *n.LeagueID)}
		}
		leagueName = &l.Name
	}

	if err := s.Repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create newsletter: %w", err)
	}
	metrics.RecordNewsletterCreated()
	return &repository.NewsletterWithRefs{Newsletter: n, AuthorUsername: author.Username, LeagueName: leagueName}, nil
}

// List returns every newsletter, newest first.
func (s *Service) List(ctx context.Context) ([]repository.NewsletterWithRefs, error) {
	list, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list newsletters: %w", err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*repository.NewsletterWithRefs, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	n, err := s.Repo.GetWithRefs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get newsletter: %w", err)
	}
	if n == nil {
		return nil, ErrNewsletterNotFound
	}
	return n, nil
}

// Delete removes a newsletter. The author and editors may delete.
func (s *Service) Delete(ctx context.Context, actor *entity.User, id int64) error {
	n, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if actor == nil || (actor.ID != n.Newsletter.AuthorID && !actor.Role.CanManage()) {
		return ErrNotAuthor
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrNewsletterNotFound
		}
		return fmt.Errorf("delete newsletter: %w", err)
	}
	return nil
}
