package sqlite

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

// articleRow holds the raw column values before millis are converted.
type articleRow struct {
	a                entity.Article
	created, updated int64
	approvedAt       sql.NullInt64
}

func (r *articleRow) dest() []interface{} {
	return []interface{}{
		&r.a.ID, &r.a.Title, &r.a.Body, &r.a.AuthorID, &r.a.LeagueID, &r.a.TeamID,
		&r.created, &r.updated, &r.a.Approved, &r.a.ApprovedBy, &r.approvedAt,
	}
}

func (r *articleRow) article() *entity.Article {
	a := r.a
	a.CreatedAt = fromMillis(r.created)
	a.UpdatedAt = fromMillis(r.updated)
	a.ApprovedAt = fromNullMillis(r.approvedAt)
	return &a
}

func scanArticleWithRefs(s rowScanner) (*repository.ArticleWithRefs, error) {
	var r articleRow
	var out repository.ArticleWithRefs
	dest := append(r.dest(), &out.AuthorUsername, &out.LeagueName, &out.TeamName, &out.ApproverUsername)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	out.Article = r.article()
	return &out, nil
}

func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	var r articleRow
	err := repo.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles a WHERE a.id = ? LIMIT 1`, id,
	).Scan(r.dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: QueryRowContext: %w", err)
	}
	return r.article(), nil
}

func (repo *ArticleRepo) GetWithRefs(ctx context.Context, id int64) (*repository.ArticleWithRefs, error) {
	out, err := scanArticleWithRefs(repo.db.QueryRowContext(ctx, articleWithRefsSelect+`
WHERE a.id = ?
LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetWithRefs: QueryRowContext: %w", err)
	}
	return out, nil
}

// NULL sorts first in SQLite ascending order, so DESC already puts it last.
func (repo *ArticleRepo) ListApproved(ctx context.Context) ([]repository.ArticleWithRefs, error) {
	return repo.queryWithRefs(ctx, "ListApproved", articleWithRefsSelect+`
WHERE a.approved = 1
ORDER BY a.approved_at DESC, a.created_at DESC, a.id DESC`)
}

func (repo *ArticleRepo) ListPending(ctx context.Context) ([]repository.ArticleWithRefs, error) {
	return repo.queryWithRefs(ctx, "ListPending", articleWithRefsSelect+`
WHERE a.approved = 0
ORDER BY a.created_at DESC, a.id DESC`)
}

func (repo *ArticleRepo) ListApprovedBetween(ctx context.Context, since, until time.Time) ([]repository.ArticleWithRefs, error) {
	return repo.queryWithRefs(ctx, "ListApprovedBetween", articleWithRefsSelect+`
WHERE a.approved = 1 AND a.approved_at > ? AND a.approved_at <= ?
ORDER BY a.approved_at DESC, a.created_at DESC, a.id DESC`, toMillis(since), toMillis(until))
}

func (repo *ArticleRepo) CountPending(ctx context.Context) (int64, error) {
	var n int64
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles WHERE approved = 0`).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountPending: QueryRowContext: %w", err)
	}
	return n, nil
}

func (repo *ArticleRepo) Create(ctx context.Context, a *entity.Article) error {
	const query = `
INSERT INTO articles (title, body, author_id, league_id, team_id,
                      created_at, updated_at, approved, approved_by, approved_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := repo.db.ExecContext(ctx, query,
		a.Title, a.Body, a.AuthorID, a.LeagueID, a.TeamID,
		toMillis(a.CreatedAt), toMillis(a.UpdatedAt), a.Approved, a.ApprovedBy, toNullMillis(a.ApprovedAt),
	)
	if err != nil {
		return fmt.Errorf("Create: %w", translateError(err, "article"))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	a.ID = id
	return nil
}

// Update never replaces a stored approved_at.
func (repo *ArticleRepo) Update(ctx context.Context, a *entity.Article) error {
	const query = `
UPDATE articles
SET title = ?, body = ?, league_id = ?, team_id = ?, updated_at = ?,
    approved = ?, approved_by = ?, approved_at = COALESCE(approved_at, ?)
WHERE id = ?
RETURNING approved_at`
	var stored sql.NullInt64
	err := repo.db.QueryRowContext(ctx, query,
		a.Title, a.Body, a.LeagueID, a.TeamID, toMillis(a.UpdatedAt),
		a.Approved, a.ApprovedBy, toNullMillis(a.ApprovedAt), a.ID,
	).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("Update: %w", translateError(err, "article"))
	}
	a.ApprovedAt = fromNullMillis(stored)
	return nil
}

func (repo *ArticleRepo) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, repo.db, "Delete", `DELETE FROM articles WHERE id = ?`, id)
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
