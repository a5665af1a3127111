package article

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/observability/metrics"
	"sportsdesk/internal/observability/tracing"
	"sportsdesk/internal/repository"
)

// Input represents the author-editable fields of an article.
type Input struct {
	Title    string
	Body     string
	LeagueID *int64
	TeamID   *int64
}

// Service provides article management use cases.
type Service struct {
	Repo    repository.ArticleRepository
	Users   repository.UserRepository
	Leagues repository.LeagueRepository
	Teams   repository.TeamRepository

	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Save validates and persists a. Nothing is written when validation fails.
//
// Rules, in order:
//   - an approved article must name its approving editor
//   - the author must be a journalist, the approving editor an editor
//   - league and team must exist; a team given with a league must belong to it
//   - ApprovedAt is stamped on the first approved save and never rewritten
func (s *Service) Save(ctx context.Context, a *entity.Article) (err error) {
	ctx, span := tracing.StartSpan(ctx, "article.Save")
	defer span.End()
	span.SetAttributes(attribute.Int64("article.id", a.ID), attribute.Bool("article.approved", a.Approved))

	defer func() {
		var ve *entity.ValidationError
		if errors.As(err, &ve) {
			metrics.RecordArticleRejected(ve.Field)
		}
	}()

	if err := a.Validate(); err != nil {
		return err
	}
	if err := s.checkPeople(ctx, a); err != nil {
		return err
	}
	if err := s.checkTaxonomy(ctx, a); err != nil {
		return err
	}

	isNew := a.ID == 0
	if err := a.PrepareSave(s.now()); err != nil {
		return err
	}

	if isNew {
		if err := s.Repo.Create(ctx, a); err != nil {
			return fmt.Errorf("create article: %w", err)
		}
		metrics.RecordArticleCreated()
		return nil
	}
	if err := s.Repo.Update(ctx, a); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrArticleNotFound
		}
		return fmt.Errorf("update article: %w", err)
	}
	return nil
}

func (s *Service) checkPeople(ctx context.Context, a *entity.Article) error {
	author, err := s.Users.Get(ctx, a.AuthorID)
	if err != nil {
		return fmt.Errorf("get author: %w", err)
	}
	if author == nil {
		return &entity.ValidationError{Field: "author", Message: fmt.Sprintf("user %d does not exist", a.AuthorID)}
	}
	if !author.Role.CanAuthor() {
		return &entity.ValidationError{Field: "author", Message: fmt.Sprintf("user %q is not a journalist", author.Username)}
	}

	if a.ApprovedBy == nil {
		return nil
	}
	editor, err := s.Users.Get(ctx, *a.ApprovedBy)
	if err != nil {
		return fmt.Errorf("get approving editor: %w", err)
	}
	if editor == nil {
		return &entity.ValidationError{Field: "approved_by", Message: fmt.Sprintf("user %d does not exist", *a.ApprovedBy)}
	}
	if !editor.Role.CanApprove() {
		return &entity.ValidationError{Field: "approved_by", Message: fmt.Sprintf("user %q is not an editor", editor.Username)}
	}
	return nil
}

func (s *Service) checkTaxonomy(ctx context.Context, a *entity.Article) error {
	if a.LeagueID != nil {
		l, err := s.Leagues.Get(ctx, *a.LeagueID)
		if err != nil {
			return fmt.Errorf("get league: %w", err)
		}
		if l == nil {
			return &entity.ValidationError{Field: "league", Message: fmt.Sprintf("league %d does not exist", *a.LeagueID)}
		}
	}
	if a.TeamID != nil {
		t, err := s.Teams.Get(ctx, *a.TeamID)
		if err != nil {
			return fmt.Errorf("get team: %w", err)
		}
		if t == nil {
			return &entity.ValidationError{Field: "team", Message: fmt.Sprintf("team %d does not exist", *a.TeamID)}
		}
		// team だけ指定された場合は league を補完しない
		if a.LeagueID != nil && t.LeagueID != *a.LeagueID {
			return &entity.ValidationError{Field: "team", Message: fmt.Sprintf("team %q does not belong to the selected league", t.Name)}
		}
	}
	return nil
}

// Create writes a new unapproved article authored by author.
func (s *Service) Create(ctx context.Context, author *entity.User, in Input) (*entity.Article, error) {
	if author == nil || !author.Role.CanAuthor() {
		return nil, ErrNotJournalist
	}
	a := &entity.Article{
		Title:    strings.TrimSpace(in.Title),
		Body:     in.Body,
		AuthorID: author.ID,
		LeagueID: in.LeagueID,
		TeamID:   in.TeamID,
	}
	if err := s.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Update replaces the author-editable fields. Only the author may edit, and
// the approval state is left as it is.
func (s *Service) Update(ctx context.Context, actor *entity.User, id int64, in Input) (*entity.Article, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil || actor.ID != a.AuthorID {
		return nil, ErrNotAuthor
	}
	a.Title = strings.TrimSpace(in.Title)
	a.Body = in.Body
	a.LeagueID = in.LeagueID
	a.TeamID = in.TeamID
	if err := s.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Approve marks the article approved by editor.
func (s *Service) Approve(ctx context.Context, editor *entity.User, id int64) (*entity.Article, error) {
	if editor == nil || !editor.Role.CanApprove() {
		return nil, ErrNotEditor
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	wasApproved := a.Approved
	a.Approve(editor.ID)
	if err := s.Save(ctx, a); err != nil {
		return nil, err
	}
	if !wasApproved {
		metrics.RecordArticleApproved()
	}
	return a, nil
}

// Unapprove withdraws approval. The original approval time is kept.
func (s *Service) Unapprove(ctx context.Context, editor *entity.User, id int64) (*entity.Article, error) {
	if editor == nil || !editor.Role.CanApprove() {
		return nil, ErrNotEditor
	}
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	wasApproved := a.Approved
	a.Unapprove()
	if err := s.Save(ctx, a); err != nil {
		return nil, err
	}
	if wasApproved {
		metrics.RecordArticleUnapproved()
	}
	return a, nil
}

// Get retrieves a single article by its ID.
// Returns ErrInvalidArticleID if the ID is not positive.
// Returns ErrArticleNotFound if the article does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Article, error) {
	if id <= 0 {
		return nil, ErrInvalidArticleID
	}
	a, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if a == nil {
		return nil, ErrArticleNotFound
	}
	return a, nil
}

// Delete removes an article. The author and editors may delete.
func (s *Service) Delete(ctx context.Context, actor *entity.User, id int64) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if actor == nil || (actor.ID != a.AuthorID && !actor.Role.CanManage()) {
		return ErrNotAuthor
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrArticleNotFound
		}
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}
