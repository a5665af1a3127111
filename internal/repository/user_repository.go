package repository

import (
	"context"

	"sportsdesk/internal/domain/entity"
)

type UserRepository interface {
	// Get returns (nil, nil) if the user does not exist.
	Get(ctx context.Context, id int64) (*entity.User, error)
	// GetByUsername returns (nil, nil) if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	// Create returns *entity.UniquenessError when the username is taken.
	Create(ctx context.Context, user *entity.User) error
	UpdateRole(ctx context.Context, id int64, role entity.Role) error
	// Delete removes the user together with the articles and newsletters
	// they authored; approvals they granted keep existing with a NULL approver.
	Delete(ctx context.Context, id int64) error

	// AddFollow and RemoveFollow are idempotent; changed reports whether an
	// edge was actually inserted or deleted.
	AddFollow(ctx context.Context, followerID, followedID int64) (changed bool, err error)
	RemoveFollow(ctx context.Context, followerID, followedID int64) (changed bool, err error)
	ListFollowing(ctx context.Context, userID int64) ([]*entity.User, error)
	ListFollowers(ctx context.Context, userID int64) ([]*entity.User, error)
}
