package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/infra/adapter/persistence/sqlite"
	"sportsdesk/internal/infra/db"
)

/* ─────────────────────────── ヘルパ ─────────────────────────── */

func int64p(v int64) *int64 { return &v }

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenDSN(db.DriverSQLite, filepath.Join(t.TempDir(), "test.db"), db.DefaultConnectionConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.MigrateUp(conn, db.DriverSQLite))
	return conn
}

type fixture struct {
	users    *sqlite.UserRepo
	leagues  *sqlite.LeagueRepo
	teams    *sqlite.TeamRepo
	articles *sqlite.ArticleRepo
	letters  *sqlite.NewsletterRepo

	journalist, editor *entity.User
	league             *entity.League
	team               *entity.Team
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := openDB(t)
	ctx := context.Background()
	f := &fixture{
		users:    sqlite.NewUserRepo(conn).(*sqlite.UserRepo),
		leagues:  sqlite.NewLeagueRepo(conn).(*sqlite.LeagueRepo),
		teams:    sqlite.NewTeamRepo(conn).(*sqlite.TeamRepo),
		articles: sqlite.NewArticleRepo(conn).(*sqlite.ArticleRepo),
		letters:  sqlite.NewNewsletterRepo(conn).(*sqlite.NewsletterRepo),
	}
	f.journalist = &entity.User{Username: "jo", Role: entity.RoleJournalist, CreatedAt: time.Now()}
	f.editor = &entity.User{Username: "ed", Role: entity.RoleEditor, CreatedAt: time.Now()}
	require.NoError(t, f.users.Create(ctx, f.journalist))
	require.NoError(t, f.users.Create(ctx, f.editor))

	f.league = &entity.League{Name: "Premier League"}
	require.NoError(t, f.leagues.Create(ctx, f.league))
	f.team = &entity.Team{Name: "Arsenal", LeagueID: f.league.ID}
	require.NoError(t, f.teams.Create(ctx, f.team))
	return f
}

func (f *fixture) article(t *testing.T, title string, at time.Time, approvedBy *int64) *entity.Article {
	t.Helper()
	a := &entity.Article{Title: title, Body: "body", AuthorID: f.journalist.ID, LeagueID: int64p(f.league.ID), TeamID: int64p(f.team.ID)}
	if approvedBy != nil {
		a.Approve(*approvedBy)
	}
	require.NoError(t, a.PrepareSave(at))
	require.NoError(t, f.articles.Create(context.Background(), a))
	return a
}

/* ─────────────────────────── 1. Uniqueness ─────────────────────────── */

func TestTaxonomy_Uniqueness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.leagues.Create(ctx, &entity.League{Name: "Premier League"})
	var ue *entity.UniquenessError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "league with this name already exists", ue.Error())

	err = f.teams.Create(ctx, &entity.Team{Name: "Arsenal", LeagueID: f.league.ID})
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "team with this name and league already exists", ue.Error())

	// 同名チームでもリーグが違えば登録できる
	other := &entity.League{Name: "WSL"}
	require.NoError(t, f.leagues.Create(ctx, other))
	require.NoError(t, f.teams.Create(ctx, &entity.Team{Name: "Arsenal", LeagueID: other.ID}))

	err = f.users.Create(ctx, &entity.User{Username: "jo", Role: entity.RoleReader, CreatedAt: time.Now()})
	assert.True(t, entity.IsUniqueness(err))
}

func TestTeamRepo_ListByLeague(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.teams.Create(ctx, &entity.Team{Name: "Chelsea", LeagueID: f.league.ID}))

	teams, err := f.teams.ListByLeague(ctx, f.league.ID)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "Arsenal", teams[0].Name)
	assert.Equal(t, "Premier League", teams[0].LeagueName)

	teams, err = f.teams.ListByLeague(ctx, 999)
	require.NoError(t, err)
	assert.NotNil(t, teams)
	assert.Empty(t, teams)
}

/* ─────────────────────────── 2. Articles ─────────────────────────── */

func TestArticleRepo_Update_ApprovedAtIsSticky(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	a := f.article(t, "Derby", first, int64p(f.editor.ID))
	require.NotNil(t, a.ApprovedAt)

	// 承認取り消し → 再承認でも approved_at は変わらない
	a.Unapprove()
	require.NoError(t, a.PrepareSave(first.Add(time.Hour)))
	require.NoError(t, f.articles.Update(ctx, a))
	a.Approve(f.editor.ID)
	require.NoError(t, a.PrepareSave(first.Add(2*time.Hour)))
	require.NoError(t, f.articles.Update(ctx, a))

	got, err := f.articles.Get(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ApprovedAt)
	assert.True(t, got.ApprovedAt.Equal(first))
	assert.True(t, got.UpdatedAt.Equal(first.Add(2*time.Hour)))

	// approved_at が既に保存されている場合、呼び出し側の値は読み戻しで上書きされる
	stale := first.Add(10 * time.Hour)
	got.ApprovedAt = &stale
	require.NoError(t, f.articles.Update(ctx, got))
	assert.True(t, got.ApprovedAt.Equal(first))
}

func TestArticleRepo_ListOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	f.article(t, "older", base, int64p(f.editor.ID))
	f.article(t, "newer", base.Add(time.Hour), int64p(f.editor.ID))
	f.article(t, "draft-a", base.Add(2*time.Hour), nil)
	f.article(t, "draft-b", base.Add(3*time.Hour), nil)

	approved, err := f.articles.ListApproved(ctx)
	require.NoError(t, err)
	require.Len(t, approved, 2)
	assert.Equal(t, "newer", approved[0].Article.Title)
	assert.Equal(t, "jo", approved[0].AuthorUsername)
	assert.Equal(t, "Arsenal", *approved[0].TeamName)
	assert.Equal(t, "ed", *approved[0].ApproverUsername)

	pending, err := f.articles.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "draft-b", pending[0].Article.Title)
	assert.Nil(t, pending[0].ApproverUsername)

	n, err := f.articles.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	window, err := f.articles.ListApprovedBetween(ctx, base.Add(30*time.Minute), base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "newer", window[0].Article.Title)

	// 上限は含む、下限は含まない
	window, err = f.articles.ListApprovedBetween(ctx, base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "newer", window[0].Article.Title)
}

/* ─────────────────────────── 3. Deletion policies ─────────────────────────── */

func TestDeleteTeam_NullsArticleTeam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.article(t, "Derby", time.Now(), nil)

	require.NoError(t, f.teams.Delete(ctx, f.team.ID))

	got, err := f.articles.GetWithRefs(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Article.TeamID)
	assert.Nil(t, got.TeamName)
	assert.Equal(t, f.league.ID, *got.Article.LeagueID)
}

func TestDeleteLeague_CascadesTeamsAndNullsContent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.article(t, "Derby", time.Now(), nil)
	n := &entity.Newsletter{Title: "Weekly", Body: "b", AuthorID: f.journalist.ID, LeagueID: int64p(f.league.ID), CreatedAt: time.Now()}
	require.NoError(t, f.letters.Create(ctx, n))

	require.NoError(t, f.leagues.Delete(ctx, f.league.ID))

	team, err := f.teams.Get(ctx, f.team.ID)
	require.NoError(t, err)
	assert.Nil(t, team)

	got, err := f.articles.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LeagueID)
	assert.Nil(t, got.TeamID)

	letter, err := f.letters.GetWithRefs(ctx, n.ID)
	require.NoError(t, err)
	assert.Nil(t, letter.Newsletter.LeagueID)
	assert.Nil(t, letter.LeagueName)
}

func TestDeleteUser_CascadesAuthoredAndNullsApprover(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	approved := f.article(t, "Derby", time.Now(), int64p(f.editor.ID))

	other := &entity.User{Username: "jo2", Role: entity.RoleJournalist, CreatedAt: time.Now()}
	require.NoError(t, f.users.Create(ctx, other))
	byOther := &entity.Article{Title: "t", Body: "b", AuthorID: other.ID}
	require.NoError(t, byOther.PrepareSave(time.Now()))
	require.NoError(t, f.articles.Create(ctx, byOther))

	// 承認者の削除: 記事は残り approved_by のみ NULL
	require.NoError(t, f.users.Delete(ctx, f.editor.ID))
	got, err := f.articles.Get(ctx, approved.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Approved)
	assert.Nil(t, got.ApprovedBy)
	assert.NotNil(t, got.ApprovedAt)

	// 著者の削除: 記事も削除される
	require.NoError(t, f.users.Delete(ctx, other.ID))
	gone, err := f.articles.Get(ctx, byOther.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	err = f.users.Delete(ctx, other.ID)
	assert.True(t, errors.Is(err, entity.ErrNotFound))
}

/* ─────────────────────────── 4. Follows ─────────────────────────── */

func TestUserRepo_Follows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reader := &entity.User{Username: "rd", Role: entity.RoleReader, CreatedAt: time.Now()}
	require.NoError(t, f.users.Create(ctx, reader))

	added, err := f.users.AddFollow(ctx, reader.ID, f.journalist.ID)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = f.users.AddFollow(ctx, reader.ID, f.journalist.ID)
	require.NoError(t, err, "AddFollow is idempotent")
	assert.False(t, added)

	following, err := f.users.ListFollowing(ctx, reader.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "jo", following[0].Username)

	followers, err := f.users.ListFollowers(ctx, f.journalist.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "rd", followers[0].Username)

	removed, err := f.users.RemoveFollow(ctx, f.journalist.ID, reader.ID)
	require.NoError(t, err)
	assert.False(t, removed, "no reverse edge")

	// 一方向: jo は誰もフォローしていない
	back, err := f.users.ListFollowing(ctx, f.journalist.ID)
	require.NoError(t, err)
	assert.Empty(t, back)

	require.NoError(t, f.users.Delete(ctx, f.journalist.ID))
	following, err = f.users.ListFollowing(ctx, reader.ID)
	require.NoError(t, err)
	assert.Empty(t, following)
}

func TestUserRepo_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.users.GetByUsername(ctx, "ed")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.RoleEditor, got.Role)

	require.NoError(t, f.users.UpdateRole(ctx, got.ID, entity.RoleReader))
	got, err = f.users.Get(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleReader, got.Role)

	missing, err := f.users.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
