package repository

import (
	"context"

	"sportsdesk/internal/domain/entity"
)

type LeagueRepository interface {
	// Get returns (nil, nil) if the league does not exist.
	Get(ctx context.Context, id int64) (*entity.League, error)
	List(ctx context.Context) ([]*entity.League, error)
	// Create returns *entity.UniquenessError when the name is taken.
	Create(ctx context.Context, league *entity.League) error
	// Delete removes the league and its teams; articles and newsletters
	// that referenced it keep existing with a NULL league.
	Delete(ctx context.Context, id int64) error
}

type TeamRepository interface {
	// Get returns (nil, nil) if the team does not exist.
	Get(ctx context.Context, id int64) (*entity.Team, error)
	// ListByLeague returns an empty slice for unknown leagues.
	ListByLeague(ctx context.Context, leagueID int64) ([]*entity.Team, error)
	// Create returns *entity.UniquenessError when (name, league) is taken.
	Create(ctx context.Context, team *entity.Team) error
	// Delete removes the team; articles that referenced it get a NULL team.
	Delete(ctx context.Context, id int64) error
}
