package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/infra/db"
	"sportsdesk/internal/repository"
)

type ArticleRepo struct{ db db.DBTX }

func NewArticleRepo(db db.DBTX) repository.ArticleRepository {
	return &ArticleRepo{db: db}
}

const articleColumns = `a.id, a.title, a.body, a.author_id, a.league_id, a.team_id,
       a.created_at, a.updated_at, a.approved, a.approved_by, a.approved_at`

const articleWithRefsSelect = `
SELECT ` + articleColumns + `,
       u.username, l.name, t.name, ap.username
FROM articles a
JOIN users u ON u.id = a.author_id
LEFT JOIN leagues l ON l.id = a.league_id
LEFT JOIN teams t ON t.id = a.team_id
LEFT JOIN users ap ON ap.id = a.approved_by`

func articleDest(a *entity.Article) []interface{} {
	return []interface{}{
		&a.ID, &a.Title, &a.Body, &a.AuthorID, &a.LeagueID, &a.TeamID,
		&a.CreatedAt, &a.UpdatedAt, &a.Approved, &a.ApprovedBy, &a.ApprovedAt,
	}
}

func scanArticleWithRefs(s rowScanner) (*repository.ArticleWithRefs, error) {
	var a entity.Article
	out := repository.ArticleWithRefs{Article: &a}
	dest := append(articleDest(&a), &out.AuthorUsername, &out.LeagueName, &out.TeamName, &out.ApproverUsername)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	return &out, nil
}

func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles a WHERE a.id = $1 LIMIT 1`
	var a entity.Article
	err := repo.db.QueryRowContext(ctx, query, id).Scan(articleDest(&a)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: QueryRowContext: %w", err)
	}
	return &a, nil
}

func (repo *ArticleRepo) GetWithRefs(ctx context.Context, id int64) (*repository.ArticleWithRefs, error) {
	query := articleWithRefsSelect + `
WHERE a.id = $1
LIMIT 1`
	out, err := scanArticleWithRefs(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetWithRefs: QueryRowContext: %w", err)
	}
	return out, nil
}

func (repo *ArticleRepo) ListApproved(ctx context.Context) ([]repository.ArticleWithRefs, error) {
	query := articleWithRefsSelect + `
WHERE a.approved = TRUE
ORDER BY a.approved_at DESC NULLS LAST, a.created_at DESC, a.id DESC`
	return repo.queryWithRefs(ctx, "ListApproved", query)
}

func (repo *ArticleRepo) ListPending(ctx context.Context) ([]repository.ArticleWithRefs, error) {
	query := articleWithRefsSelect + `
WHERE a.approved = FALSE
ORDER BY a.created_at DESC, a.id DESC`
	return repo.queryWithRefs(ctx, "ListPending", query)
}

func (repo *ArticleRepo) ListApprovedBetween(ctx context.Context, since, until time.Time) ([]repository.ArticleWithRefs, error) {
	query := articleWithRefsSelect + `
WHERE a.approved = TRUE AND a.approved_at > $1 AND a.approved_at <= $2
ORDER BY a.approved_at DESC NULLS LAST, a.created_at DESC, a.id DESC`
	return repo.queryWithRefs(ctx, "ListApprovedBetween", query, since, until)
}

func (repo *ArticleRepo) CountPending(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM articles WHERE approved = FALSE`
	var n int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountPending: QueryRowContext: %w", err)
	}
	return n, nil
}

func (repo *ArticleRepo) Create(ctx context.Context, a *entity.Article) error {
	const query = `
INSERT INTO articles (title, body, author_id, league_id, team_id,
                      created_at, updated_at, approved, approved_by, approved_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		a.Title, a.Body, a.AuthorID, a.LeagueID, a.TeamID,
		a.CreatedAt, a.UpdatedAt, a.Approved, a.ApprovedBy, a.ApprovedAt,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", translateError(err, "article"))
	}
	return nil
}

// Update never replaces a stored approved_at.
func (repo *ArticleRepo) Update(ctx context.Context, a *entity.Article) error {
	const query = `
UPDATE articles
SET title = $1, body = $2, league_id = $3, team_id = $4, updated_at = $5,
    approved = $6, approved_by = $7, approved_at = COALESCE(approved_at, $8)
WHERE id = $9
RETURNING approved_at`
	err := repo.db.QueryRowContext(ctx, query,
		a.Title, a.Body, a.LeagueID, a.TeamID, a.UpdatedAt,
		a.Approved, a.ApprovedBy, a.ApprovedAt, a.ID,
	).Scan(&a.ApprovedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("Update: %w", translateError(err, "article"))
	}
	return nil
}

func (repo *ArticleRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM articles WHERE id = $1`
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

func (repo *ArticleRepo) queryWithRefs(ctx context.Context, op, query string, args ...interface{}) ([]repository.ArticleWithRefs, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: QueryContext: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	// パフォーマンス最適化: メモリ再割り当てを削減するため事前割り当て
	result := make([]repository.ArticleWithRefs, 0, 64)
	for rows.Next() {
		item, err := scanArticleWithRefs(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows.Err: %w", op, err)
	}
	return result, nil
}
