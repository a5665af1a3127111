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

type NewsletterRepo struct{ db db.DBTX }

func NewNewsletterRepo(db db.DBTX) repository.NewsletterRepository {
	return &NewsletterRepo{db: db}
}

const newsletterSelect = `
SELECT n.id, n.title, n.body, n.author_id, n.league_id, n.created_at,
       u.username, l.name
FROM newsletters n
JOIN users u ON u.id = n.author_id
LEFT JOIN leagues l ON l.id = n.league_id`

func scanNewsletter(s rowScanner) (*repository.NewsletterWithRefs, error) {
	var n entity.Newsletter
	var created int64
	out := repository.NewsletterWithRefs{Newsletter: &n}
	err := s.Scan(&n.ID, &n.Title, &n.Body, &n.AuthorID, &n.LeagueID, &created,
		&out.AuthorUsername, &out.LeagueName)
	if err != nil {
		return nil, err
	}
	n.CreatedAt = fromMillis(created)
	return &out, nil
}

func (repo *NewsletterRepo) GetWithRefs(ctx context.Context, id int64) (*repository.NewsletterWithRefs, error) {
	out, err := scanNewsletter(repo.db.QueryRowContext(ctx, newsletterSelect+`
WHERE n.id = ?
LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetWithRefs: QueryRowContext: %w", err)
	}
	return out, nil
}

func (repo *NewsletterRepo) List(ctx context.Context) ([]repository.NewsletterWithRefs, error) {
	rows, err := repo.db.QueryContext(ctx, newsletterSelect+`
ORDER BY n.created_at DESC, n.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("List: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]repository.NewsletterWithRefs, 0, 16)
	for rows.Next() {
		item, err := scanNewsletter(rows)
		if err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows.Err: %w", err)
	}
	return items, nil
}

func (repo *NewsletterRepo) Create(ctx context.Context, n *entity.Newsletter) error {
	const query = `
INSERT INTO newsletters (title, body, author_id, league_id, created_at)
VALUES (?, ?, ?, ?, ?)`
	res, err := repo.db.ExecContext(ctx, query, n.Title, n.Body, n.AuthorID, n.LeagueID, toMillis(n.CreatedAt))
	if err != nil {
		return fmt.Errorf("Create: %w", translateError(err, "newsletter"))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	n.ID = id
	return nil
}

func (repo *NewsletterRepo) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, repo.db, "Delete", `DELETE FROM newsletters WHERE id = ?`, id)
}
