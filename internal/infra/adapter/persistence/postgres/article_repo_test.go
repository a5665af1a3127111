package postgres_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgconn"

	"sportsdesk/internal/domain/entity"
	pg "sportsdesk/internal/infra/adapter/persistence/postgres"
	"sportsdesk/internal/repository"
)

/* ─────────────────────────── ヘルパ ─────────────────────────── */

func int64p(v int64) *int64 { return &v }
func strp(v string) *string { return &v }
func timep(v time.Time) *time.Time {
	return &v
}

var articleCols = []string{
	"id", "title", "body", "author_id", "league_id", "team_id",
	"created_at", "updated_at", "approved", "approved_by", "approved_at",
}

func nullable[T any](p *T) driver.Value {
	if p == nil {
		return nil
	}
	return *p
}

func articleValues(a *entity.Article) []driver.Value {
	return []driver.Value{
		a.ID, a.Title, a.Body, a.AuthorID, nullable(a.LeagueID), nullable(a.TeamID),
		a.CreatedAt, a.UpdatedAt, a.Approved, nullable(a.ApprovedBy), nullable(a.ApprovedAt),
	}
}

func refsRows(items ...repository.ArticleWithRefs) *sqlmock.Rows {
	cols := append(append([]string{}, articleCols...), "username", "league_name", "team_name", "approver")
	rows := sqlmock.NewRows(cols)
	for _, it := range items {
		vals := append(articleValues(it.Article),
			it.AuthorUsername, nullable(it.LeagueName), nullable(it.TeamName), nullable(it.ApproverUsername))
		rows.AddRow(vals...)
	}
	return rows
}

var now = time.Date(2025, 7, 19, 9, 0, 0, 0, time.UTC)

func approvedArticle() *entity.Article {
	return &entity.Article{
		ID: 1, Title: "Arsenal edge Spurs", Body: "late header",
		AuthorID: 10, LeagueID: int64p(1), TeamID: int64p(2),
		CreatedAt: now, UpdatedAt: now,
		Approved: true, ApprovedBy: int64p(30), ApprovedAt: timep(now),
	}
}

/* ─────────────────────────── 1. Get ─────────────────────────── */

func TestArticleRepo_Get(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	want := approvedArticle()
	mock.ExpectQuery(regexp.QuoteMeta("FROM articles a WHERE a.id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(articleCols).AddRow(articleValues(want)...))

	repo := pg.NewArticleRepo(db)
	got, err := repo.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_Get_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM articles").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(articleCols))

	got, err := pg.NewArticleRepo(db).Get(context.Background(), 99)
	if err != nil || got != nil {
		t.Fatalf("want (nil,nil) got (%v,%v)", got, err)
	}
}

/* ─────────────────────────── 2. GetWithRefs ─────────────────────────── */

func TestArticleRepo_GetWithRefs_Draft(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	draft := &entity.Article{ID: 5, Title: "t", Body: "b", AuthorID: 10, CreatedAt: now, UpdatedAt: now}
	want := &repository.ArticleWithRefs{Article: draft, AuthorUsername: "jo"}

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN users ap ON ap.id = a.approved_by")).
		WithArgs(int64(5)).
		WillReturnRows(refsRows(*want))

	got, err := pg.NewArticleRepo(db).GetWithRefs(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetWithRefs err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

/* ─────────────────────────── 3. Lists ─────────────────────────── */

func TestArticleRepo_ListApproved(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	item := repository.ArticleWithRefs{
		Article:          approvedArticle(),
		AuthorUsername:   "jo",
		LeagueName:       strp("Premier League"),
		TeamName:         strp("Arsenal"),
		ApproverUsername: strp("ed"),
	}
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY a.approved_at DESC NULLS LAST, a.created_at DESC")).
		WillReturnRows(refsRows(item))

	got, err := pg.NewArticleRepo(db).ListApproved(context.Background())
	if err != nil {
		t.Fatalf("ListApproved err=%v", err)
	}
	if diff := cmp.Diff([]repository.ArticleWithRefs{item}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestArticleRepo_ListPending_Empty(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.approved = FALSE")).
		WillReturnRows(refsRows())

	got, err := pg.NewArticleRepo(db).ListPending(context.Background())
	if err != nil {
		t.Fatalf("ListPending err=%v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
}

func TestArticleRepo_ListApprovedBetween(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	since := now.Add(-24 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("a.approved_at > $1 AND a.approved_at <= $2")).
		WithArgs(since, now).
		WillReturnRows(refsRows())

	if _, err := pg.NewArticleRepo(db).ListApprovedBetween(context.Background(), since, now); err != nil {
		t.Fatalf("ListApprovedBetween err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_CountPending(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM articles WHERE approved = FALSE")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	n, err := pg.NewArticleRepo(db).CountPending(context.Background())
	if err != nil || n != 3 {
		t.Fatalf("CountPending = %d, %v", n, err)
	}
}

/* ─────────────────────────── 4. Create ─────────────────────────── */

func TestArticleRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	a := &entity.Article{
		Title: "title", Body: "body", AuthorID: 10, LeagueID: int64p(1),
		CreatedAt: now, UpdatedAt: now,
	}
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO articles")).
		WithArgs("title", "body", int64(10), int64(1), nil, now, now, false, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	if err := pg.NewArticleRepo(db).Create(context.Background(), a); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if a.ID != 7 {
		t.Fatalf("ID not assigned: %d", a.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_Create_ForeignKeyViolation(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("INSERT INTO articles").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "articles_team_id_fkey"})

	err := pg.NewArticleRepo(db).Create(context.Background(), &entity.Article{Title: "t", Body: "b", AuthorID: 1})
	if !entity.IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
}

/* ─────────────────────────── 5. Update ─────────────────────────── */

func TestArticleRepo_Update_KeepsStoredApprovedAt(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	stored := now.Add(-48 * time.Hour)
	a := approvedArticle()
	a.ApprovedAt = timep(now)

	mock.ExpectQuery(regexp.QuoteMeta("approved_at = COALESCE(approved_at, $8)")).
		WithArgs(a.Title, a.Body, int64(1), int64(2), a.UpdatedAt, true, int64(30), now, int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"approved_at"}).AddRow(stored))

	if err := pg.NewArticleRepo(db).Update(context.Background(), a); err != nil {
		t.Fatalf("Update err=%v", err)
	}
	if !a.ApprovedAt.Equal(stored) {
		t.Fatalf("approved_at = %v, want stored %v", a.ApprovedAt, stored)
	}
}

func TestArticleRepo_Update_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("UPDATE articles").
		WillReturnRows(sqlmock.NewRows([]string{"approved_at"}))

	err := pg.NewArticleRepo(db).Update(context.Background(), approvedArticle())
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

/* ─────────────────────────── 6. Delete ─────────────────────────── */

func TestArticleRepo_Delete(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM articles WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM articles").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := pg.NewArticleRepo(db)
	if err := repo.Delete(context.Background(), 4); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	if err := repo.Delete(context.Background(), 5); !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
