package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/infra/db"
	"sportsdesk/internal/repository"
)

type TeamRepo struct{ db db.DBTX }

func NewTeamRepo(db db.DBTX) repository.TeamRepository {
	return &TeamRepo{db: db}
}

func (repo *TeamRepo) Get(ctx context.Context, id int64) (*entity.Team, error) {
	const query = `
SELECT t.id, t.name, t.league_id, l.name
FROM teams t
JOIN leagues l ON l.id = t.league_id
WHERE t.id = $1
LIMIT 1`
	var team entity.Team
	err := repo.db.QueryRowContext(ctx, query, id).Scan(&team.ID, &team.Name, &team.LeagueID, &team.LeagueName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: QueryRowContext: %w", err)
	}
	return &team, nil
}

func (repo *TeamRepo) ListByLeague(ctx context.Context, leagueID int64) ([]*entity.Team, error) {
	const query = `
SELECT t.id, t.name, t.league_id, l.name
FROM teams t
JOIN leagues l ON l.id = t.league_id
WHERE t.league_id = $1
ORDER BY t.name ASC, t.id ASC`
	rows, err := repo.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, fmt.Errorf("ListByLeague: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	teams := make([]*entity.Team, 0, 32)
	for rows.Next() {
		var team entity.Team
		if err := rows.Scan(&team.ID, &team.Name, &team.LeagueID, &team.LeagueName); err != nil {
			return nil, fmt.Errorf("ListByLeague: Scan: %w", err)
		}
		teams = append(teams, &team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByLeague: rows.Err: %w", err)
	}
	return teams, nil
}

func (repo *TeamRepo) Create(ctx context.Context, team *entity.Team) error {
	const query = `INSERT INTO teams (name, league_id) VALUES ($1, $2) RETURNING id`
	if err := repo.db.QueryRowContext(ctx, query, team.Name, team.LeagueID).Scan(&team.ID); err != nil {
		return fmt.Errorf("Create: %w", translateError(err, "team", "name", "league"))
	}
	return nil
}

func (repo *TeamRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM teams WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: ExecContext: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: RowsAffected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}
