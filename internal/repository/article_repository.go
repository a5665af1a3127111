package repository

import (
	"context"
	"time"

	"sportsdesk/internal/domain/entity"
)

// ArticleWithRefs represents an article along with the display names of the
// rows it references. League, team and approver names are nil when the
// reference is unset.
type ArticleWithRefs struct {
	Article          *entity.Article
	AuthorUsername   string
	LeagueName       *string
	TeamName         *string
	ApproverUsername *string
}

type ArticleRepository interface {
	// Get returns (nil, nil) if the article does not exist.
	Get(ctx context.Context, id int64) (*entity.Article, error)
	// GetWithRefs returns (nil, nil) if the article does not exist.
	GetWithRefs(ctx context.Context, id int64) (*ArticleWithRefs, error)
	// ListApproved returns approved articles ordered by approved_at DESC, created_at DESC.
	ListApproved(ctx context.Context) ([]ArticleWithRefs, error)
	// ListPending returns unapproved articles ordered by created_at DESC.
	ListPending(ctx context.Context) ([]ArticleWithRefs, error)
	// ListApprovedBetween returns approved articles with since < approved_at <= until,
	// in the same order as ListApproved.
	ListApprovedBetween(ctx context.Context, since, until time.Time) ([]ArticleWithRefs, error)
	CountPending(ctx context.Context) (int64, error)
	// Create inserts the article and assigns its ID.
	Create(ctx context.Context, article *entity.Article) error
	// Update persists all mutable columns. approved_at is only written when
	// the stored value is NULL; the stored value is read back into the article.
	Update(ctx context.Context, article *entity.Article) error
	Delete(ctx context.Context, id int64) error
}
