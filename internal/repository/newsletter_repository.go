package repository

import (
	"context"

	"sportsdesk/internal/domain/entity"
)

// NewsletterWithRefs represents a newsletter with its author username and league name.
type NewsletterWithRefs struct {
	Newsletter     *entity.Newsletter
	AuthorUsername string
	LeagueName     *string
}

type NewsletterRepository interface {
	// GetWithRefs returns (nil, nil) if the newsletter does not exist.
	GetWithRefs(ctx context.Context, id int64) (*NewsletterWithRefs, error)
	// List returns all newsletters ordered by created_at DESC.
	List(ctx context.Context) ([]NewsletterWithRefs, error)
	Create(ctx context.Context, newsletter *entity.Newsletter) error
	Delete(ctx context.Context, id int64) error
}
