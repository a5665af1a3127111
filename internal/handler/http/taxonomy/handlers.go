// Package taxonomy provides the administrative write API for leagues and teams.
package taxonomy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/handler/http/auth"
	"sportsdesk/internal/handler/http/pathutil"
	"sportsdesk/internal/handler/http/respond"
	"sportsdesk/internal/observability/logging"
)

// Service is implemented by *league.Service.
type Service interface {
	CreateLeague(ctx context.Context, name string) (*entity.League, error)
	DeleteLeague(ctx context.Context, id int64) error
	CreateTeam(ctx context.Context, name string, leagueID int64) (*entity.Team, error)
	DeleteTeam(ctx context.Context, id int64) error
}

type leagueResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type teamResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	LeagueID int64  `json:"league_id"`
	League   string `json:"league"`
}

func fail(w http.ResponseWriter, r *http.Request, err error) {
	if respond.StatusFor(err) >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("taxonomy request failed", "error", err)
	}
	respond.DomainError(w, err)
}

type CreateLeagueHandler struct{ Svc Service }

// ServeHTTP リーグ作成
func (h CreateLeagueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	l, err := h.Svc.CreateLeague(r.Context(), req.Name)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, leagueResponse{ID: l.ID, Name: l.Name})
}

type CreateTeamHandler struct{ Svc Service }

// ServeHTTP チーム作成
func (h CreateTeamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		LeagueID int64  `json:"league_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	t, err := h.Svc.CreateTeam(r.Context(), req.Name, req.LeagueID)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, teamResponse{ID: t.ID, Name: t.Name, LeagueID: t.LeagueID, League: t.LeagueName})
}

// DeleteHandler deletes a league (cascading to its teams) or a team.
type DeleteHandler struct {
	Delete func(ctx context.Context, id int64) error
}

// ServeHTTP リーグ / チーム削除
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Register mounts the taxonomy writes. All of them are Editor-only.
func Register(mux *http.ServeMux, svc Service) {
	editorOnly := auth.RequireRole(entity.RoleEditor)

	mux.Handle("POST /api/leagues/{$}", editorOnly(CreateLeagueHandler{svc}))
	mux.Handle("DELETE /api/leagues/{id}/{$}", editorOnly(DeleteHandler{Delete: svc.DeleteLeague}))
	mux.Handle("POST /api/teams/{$}", editorOnly(CreateTeamHandler{svc}))
	mux.Handle("DELETE /api/teams/{id}/{$}", editorOnly(DeleteHandler{Delete: svc.DeleteTeam}))
}
