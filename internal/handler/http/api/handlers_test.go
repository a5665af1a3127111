package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/repository"
)

/* ───────── スタブ ───────── */

type stubReader struct {
	leagues  []*entity.League
	teams    map[int64][]*entity.Team
	articles []repository.ArticleWithRefs
	err      error

	gotLeagueID int64
}

func (s *stubReader) ListLeagues(context.Context) ([]*entity.League, error) {
	return s.leagues, s.err
}

func (s *stubReader) TeamsForLeague(_ context.Context, id int64) ([]*entity.Team, error) {
	s.gotLeagueID = id
	if s.err != nil {
		return nil, s.err
	}
	if t, ok := s.teams[id]; ok {
		return t, nil
	}
	return []*entity.Team{}, nil
}

func (s *stubReader) ApprovedArticles(context.Context) ([]repository.ArticleWithRefs, error) {
	return s.articles, s.err
}

func strp(s string) *string { return &s }

func serve(t *testing.T, svc Reader, path string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	Register(mux, svc)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

/* ───────── leagues ───────── */

func TestLeagues(t *testing.T) {
	svc := &stubReader{leagues: []*entity.League{{ID: 1, Name: "NBA"}, {ID: 2, Name: "Premier League"}}}

	rr := serve(t, svc, "/api/leagues/")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"id":1,"name":"NBA"},{"id":2,"name":"Premier League"}]`, rr.Body.String())
}

func TestTeams_PassesZeroThrough(t *testing.T) {
	svc := &stubReader{}
	svc.gotLeagueID = -1

	rr := serve(t, svc, "/api/teams/00/")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(0), svc.gotLeagueID)
}

func TestLeagues_EmptyIsArray(t *testing.T) {
	rr := serve(t, &stubReader{}, "/api/leagues/")
	assert.JSONEq(t, `[]`, rr.Body.String())
}

/* ───────── teams ───────── */

func TestTeams(t *testing.T) {
	svc := &stubReader{teams: map[int64][]*entity.Team{
		7: {{ID: 3, Name: "Arsenal", LeagueID: 7, LeagueName: "Premier League"}},
	}}

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantBody string
	}{
		{name: "teams of league", path: "/api/teams/7/", wantCode: http.StatusOK, wantBody: `[{"id":3,"name":"Arsenal","league":"Premier League"}]`},
		{name: "league without teams", path: "/api/teams/8/", wantCode: http.StatusOK, wantBody: `[]`},
		{name: "unknown league", path: "/api/teams/999/", wantCode: http.StatusOK, wantBody: `[]`},
		{name: "zero id", path: "/api/teams/0/", wantCode: http.StatusOK, wantBody: `[]`},
		{name: "zero padded id", path: "/api/teams/00/", wantCode: http.StatusOK, wantBody: `[]`},
		{name: "negative id", path: "/api/teams/-1/", wantCode: http.StatusNotFound},
		{name: "non numeric id", path: "/api/teams/abc/", wantCode: http.StatusNotFound},
		{name: "extra segment", path: "/api/teams/7/x/", wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(t, svc, tt.path)
			assert.Equal(t, tt.wantCode, rr.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rr.Body.String())
			}
		})
	}
}

/* ───────── articles ───────── */

func TestArticles_Shape(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.FixedZone("JST", 9*3600))
	svc := &stubReader{articles: []repository.ArticleWithRefs{
		{
			Article:        &entity.Article{ID: 10, Title: "Derby day", Approved: true, ApprovedAt: &at},
			AuthorUsername: "j1",
			LeagueName:     strp("Premier League"),
			TeamName:       strp("Arsenal"),
		},
		{
			Article:        &entity.Article{ID: 11, Title: "General news", Approved: true, ApprovedAt: &at},
			AuthorUsername: "j2",
		},
	}}

	rr := serve(t, svc, "/api/articles/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 2)

	assert.Equal(t, map[string]any{
		"id": 10.0, "title": "Derby day", "author": "j1",
		"league": "Premier League", "team": "Arsenal",
		"approved_at": "2024-03-01T00:30:00Z",
	}, got[0])
	assert.Nil(t, got[1]["league"])
	assert.Nil(t, got[1]["team"])
	assert.Contains(t, got[1], "league", "null fields are still present")
}

func TestArticles_ErrorIsSanitized(t *testing.T) {
	rr := serve(t, &stubReader{err: errors.New("pq: relation articles does not exist")}, "/api/articles/")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rr.Body.String())
}
