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

type LeagueRepo struct{ db db.DBTX }

func NewLeagueRepo(db db.DBTX) repository.LeagueRepository {
	return &LeagueRepo{db: db}
}

func (repo *LeagueRepo) Get(ctx context.Context, id int64) (*entity.League, error) {
	const query = `
SELECT id, name
FROM leagues
WHERE id = $1
LIMIT 1`
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
	const query = `
SELECT id, name
FROM leagues
ORDER BY name ASC, id ASC`
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
	const query = `INSERT INTO leagues (name) VALUES ($1) RETURNING id`
	if err := repo.db.QueryRowContext(ctx, query, league.Name).Scan(&league.ID); err != nil {
		return fmt.Errorf("Create: %w", translateError(err, "league", "name"))
	}
	return nil
}

func (repo *LeagueRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM leagues WHERE id = $1`
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
