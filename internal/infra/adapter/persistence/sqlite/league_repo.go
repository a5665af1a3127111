package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/infra/db"
	"sportsdesk/internal/repository"
)

type LeagueRepo struct{ db db.DBTX }

func NewLeagueRepo(db db.DBTX) repository.LeagueRepository {
	return &LeagueRepo{db: db}
}

func (repo *LeagueRepo) Get(ctx context.Context, id int64) (*entity.League, error) {
	const query = `SELECT id, name FROM leagues WHERE id = ? LIMIT 1`
	var league entity.League
	err := repo.db.QueryRowContext(ctx, query, id).Scan(&league.ID, &league.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: QueryRowContext: %w", err)
	}
	return &league, nil
}

func (repo *LeagueRepo) List(ctx context.Context) ([]*entity.League, error) {
	const query = `SELECT id, name FROM leagues ORDER BY name ASC, id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	leagues := make([]*entity.League, 0, 16)
	for rows.Next() {
		var league entity.League
		if err := rows.Scan(&league.ID, &league.Name); err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		leagues = append(leagues, &league)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows.Err: %w", err)
	}
	return leagues, nil
}

func (repo *LeagueRepo) Create(ctx context.Context, league *entity.League) error {
	res, err := repo.db.ExecContext(ctx, `INSERT INTO leagues (name) VALUES (?)`, league.Name)
	if err != nil {
		return fmt.Errorf("Create: %w", translateError(err, "league", "name"))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	league.ID = id
	return nil
}

func (repo *LeagueRepo) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, repo.db, "Delete", `DELETE FROM leagues WHERE id = ?`, id)
}

type TeamRepo struct{ db db.DBTX }

func NewTeamRepo(db db.DBTX) repository.TeamRepository {
	return &TeamRepo{db: db}
}

func (repo *TeamRepo) Get(ctx context.Context, id int64) (*entity.Team, error) {
	const query = `
SELECT t.id, t.name, t.league_id, l.name
FROM teams t
JOIN leagues l ON l.id = t.league_id
WHERE t.id = ?
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
WHERE t.league_id = ?
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
	res, err := repo.db.ExecContext(ctx, `INSERT INTO teams (name, league_id) VALUES (?, ?)`, team.Name, team.LeagueID)
	if err != nil {
		return fmt.Errorf("Create: %w", translateError(err, "team", "name", "league"))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	team.ID = id
	return nil
}

func (repo *TeamRepo) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, repo.db, "Delete", `DELETE FROM teams WHERE id = ?`, id)
}
