package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"sportsdesk/internal/config"
	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/infra/adapter/persistence"
	"sportsdesk/internal/infra/db"
	"sportsdesk/internal/resilience/circuitbreaker"
	userUC "sportsdesk/internal/usecase/user"
)

const password = "kick-off-at-three"

type testServer struct {
	handler http.Handler
	repos   *persistence.Repositories
	league  *entity.League
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	conn, err := db.OpenDSN(db.DriverSQLite, filepath.Join(t.TempDir(), "api.db"), db.DefaultConnectionConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.MigrateUp(conn, db.DriverSQLite))

	breaker := circuitbreaker.NewDB(conn)
	repos, err := persistence.New(db.DriverSQLite, breaker)
	require.NoError(t, err)

	cfg := &config.APIConfig{
		Version:        "test",
		JWTSecret:      "router-test-secret-0123456789abcdef",
		JWTTTL:         time.Hour,
		DB:             config.DBConfig{Driver: db.DriverSQLite},
		RequestTimeout: 5 * time.Second,
		MaxBodyBytes:   1 << 20,
		RateLimit: config.RateLimitConfig{
			AuthLimit: 100, AuthWindow: time.Minute,
			RegisterLimit: 2, RegisterWindow: time.Hour,
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	components, err := setupServer(logger, cfg, conn, breaker, repos)
	require.NoError(t, err)

	// 初期データ: 編集者・記者・リーグ
	ctx := context.Background()
	users := &userUC.Service{Repo: repos.Users, BcryptCost: bcrypt.MinCost}
	_, err = users.CreateUser(ctx, userUC.RegisterInput{Username: "ed", Password: password}, entity.RoleEditor)
	require.NoError(t, err)
	_, err = users.CreateUser(ctx, userUC.RegisterInput{Username: "jo", Password: password}, entity.RoleJournalist)
	require.NoError(t, err)
	league := &entity.League{Name: "Premier League"}
	require.NoError(t, repos.Leagues.Create(ctx, league))

	return &testServer{handler: components.Handler, repos: repos, league: league}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/auth/token", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

/* ───────── ワークフロー全体 ───────── */

func TestRouter_ApprovalWorkflow(t *testing.T) {
	s := newTestServer(t)
	journalist := s.login(t, "jo")
	editor := s.login(t, "ed")

	// 記者が下書きを作成
	rr := s.do(t, http.MethodPost, "/api/articles/", journalist, map[string]any{
		"title": "Derby day", "body": "Report", "league_id": s.league.ID,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created struct {
		ID         int64      `json:"id"`
		Approved   bool       `json:"approved"`
		ApprovedAt *time.Time `json:"approved_at"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.False(t, created.Approved)
	assert.Nil(t, created.ApprovedAt)
	articlePath := "/article/" + strconv.FormatInt(created.ID, 10) + "/"
	apiPath := "/api/articles/" + strconv.FormatInt(created.ID, 10) + "/"

	// 未承認: 公開 API には出ない、匿名の詳細ページはリダイレクト
	rr = s.do(t, http.MethodGet, "/api/articles/", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = s.do(t, http.MethodGet, articlePath, "", nil)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	rr = s.do(t, http.MethodGet, articlePath, journalist, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, http.MethodGet, "/review/", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Derby day [Premier League]")

	// 記者は承認できない
	rr = s.do(t, http.MethodPost, apiPath+"approve/", journalist, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// 編集者が承認
	rr = s.do(t, http.MethodPost, apiPath+"approve/", editor, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = s.do(t, http.MethodGet, "/api/articles/", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var listed []struct {
		ID         int64      `json:"id"`
		Title      string     `json:"title"`
		Author     string     `json:"author"`
		League     *string    `json:"league"`
		ApprovedAt *time.Time `json:"approved_at"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Derby day", listed[0].Title)
	assert.Equal(t, "jo", listed[0].Author)
	require.NotNil(t, listed[0].League)
	assert.Equal(t, "Premier League", *listed[0].League)
	require.NotNil(t, listed[0].ApprovedAt)
	firstApproval := *listed[0].ApprovedAt

	rr = s.do(t, http.MethodGet, articlePath, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Approved by ed")

	// 承認取り消し → 再承認でも approved_at は変わらない
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, apiPath+"unapprove/", editor, nil).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, apiPath+"approve/", editor, nil).Code)

	stored, err := s.repos.Articles.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ApprovedAt)
	assert.True(t, stored.ApprovedAt.Equal(firstApproval))
}

func TestRouter_PublicEndpoints(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodGet, "/api/leagues/", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"id":`+strconv.FormatInt(s.league.ID, 10)+`,"name":"Premier League"}]`, rr.Body.String())

	rr = s.do(t, http.MethodGet, "/api/teams/"+strconv.FormatInt(s.league.ID, 10)+"/", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	for _, p := range []string{"/api/teams/999/", "/api/teams/0/"} {
		rr = s.do(t, http.MethodGet, p, "", nil)
		require.Equal(t, http.StatusOK, rr.Code, p)
		assert.JSONEq(t, `[]`, rr.Body.String(), p)
	}

	rr = s.do(t, http.MethodGet, "/api/teams/abc/", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Premier League")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "default-src 'self'")

	rr = s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/ready", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/metrics", "", nil).Code)
}

func TestRouter_AuthErrors(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/articles/", "", map[string]any{"title": "t", "body": "b"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/articles/", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, http.MethodPost, "/auth/token", "", map[string]string{"username": "jo", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	reader := s.do(t, http.MethodPost, "/api/users/", "", map[string]string{"username": "rita", "password": password})
	require.Equal(t, http.StatusCreated, reader.Code, reader.Body.String())
	token := s.login(t, "rita")

	rr = s.do(t, http.MethodPost, "/api/leagues/", token, map[string]string{"name": "Serie A"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRouter_RegistrationIsRateLimited(t *testing.T) {
	s := newTestServer(t)

	codes := make([]int, 0, 3)
	for _, name := range []string{"r1", "r2", "r3"} {
		rr := s.do(t, http.MethodPost, "/api/users/", "", map[string]string{"username": name, "password": password})
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
}
