package api

import (
	"context"
	"errors"
	"net/http"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/handler/http/pathutil"
	"sportsdesk/internal/handler/http/respond"
	"sportsdesk/internal/repository"
)

// Reader is the query side these handlers need; *feed.Service satisfies it.
type Reader interface {
	ListLeagues(ctx context.Context) ([]*entity.League, error)
	TeamsForLeague(ctx context.Context, leagueID int64) ([]*entity.Team, error)
	ApprovedArticles(ctx context.Context) ([]repository.ArticleWithRefs, error)
}

type LeaguesHandler struct{ Svc Reader }

// ServeHTTP リーグ一覧
func (h LeaguesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	leagues, err := h.Svc.ListLeagues(r.Context())
	if err != nil {
		respond.DomainError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, leagueDTOs(leagues))
}

type TeamsHandler struct{ Svc Reader }

// ServeHTTP リーグ所属チーム一覧。存在しないリーグは空配列。
func (h TeamsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	leagueID, err := pathutil.ParseKey(r.PathValue("league_id"))
	if err != nil {
		respond.SafeError(w, http.StatusNotFound, errors.New("league not found"))
		return
	}
	teams, err := h.Svc.TeamsForLeague(r.Context(), leagueID)
	if err != nil {
		respond.DomainError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, teamDTOs(teams))
}

type ArticlesHandler struct{ Svc Reader }

// ServeHTTP 承認済み記事一覧 (approved_at DESC, created_at DESC)
func (h ArticlesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	articles, err := h.Svc.ApprovedArticles(r.Context())
	if err != nil {
		respond.DomainError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, ArticleDTOs(articles))
}

// Register mounts the listings on mux.
func Register(mux *http.ServeMux, svc Reader) {
	mux.Handle("GET /api/leagues/{$}", LeaguesHandler{svc})
	mux.Handle("GET /api/teams/{league_id}/{$}", TeamsHandler{svc})
	mux.Handle("GET /api/articles/{$}", ArticlesHandler{svc})
}
