package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgconn"

	"sportsdesk/internal/domain/entity"
	pg "sportsdesk/internal/infra/adapter/persistence/postgres"
)

/* ─────────────────────────── League ─────────────────────────── */

func TestLeagueRepo_List(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY name ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(2), "NBA").
			AddRow(int64(1), "Premier League"))

	got, err := pg.NewLeagueRepo(db).List(context.Background())
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	want := []*entity.League{{ID: 2, Name: "NBA"}, {ID: 1, Name: "Premier League"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestLeagueRepo_Create_Duplicate(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO leagues (name) VALUES ($1) RETURNING id")).
		WithArgs("NBA").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := pg.NewLeagueRepo(db).Create(context.Background(), &entity.League{Name: "NBA"})
	if !entity.IsUniqueness(err) {
		t.Fatalf("want UniquenessError, got %v", err)
	}
}

func TestLeagueRepo_Get_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM leagues").WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	got, err := pg.NewLeagueRepo(db).Get(context.Background(), 9)
	if err != nil || got != nil {
		t.Fatalf("want (nil,nil) got (%v,%v)", got, err)
	}
}

func TestLeagueRepo_Delete_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec("DELETE FROM leagues").WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := pg.NewLeagueRepo(db).Delete(context.Background(), 9); !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

/* ─────────────────────────── Team ─────────────────────────── */

func TestTeamRepo_ListByLeague(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE t.league_id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "league_id", "league_name"}).
			AddRow(int64(4), "Arsenal", int64(1), "Premier League"))

	got, err := pg.NewTeamRepo(db).ListByLeague(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListByLeague err=%v", err)
	}
	want := []*entity.Team{{ID: 4, Name: "Arsenal", LeagueID: 1, LeagueName: "Premier League"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestTeamRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO teams (name, league_id)")).
		WithArgs("Arsenal", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))
	mock.ExpectQuery("INSERT INTO teams").
		WithArgs("Arsenal", int64(1)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	repo := pg.NewTeamRepo(db)
	team := &entity.Team{Name: "Arsenal", LeagueID: 1}
	if err := repo.Create(context.Background(), team); err != nil || team.ID != 4 {
		t.Fatalf("Create id=%d err=%v", team.ID, err)
	}

	err := repo.Create(context.Background(), &entity.Team{Name: "Arsenal", LeagueID: 1})
	var ue *entity.UniquenessError
	if !errors.As(err, &ue) || ue.Error() != "team with this name and league already exists" {
		t.Fatalf("want team uniqueness error, got %v", err)
	}
}
