// Package newsletter provides the newsletter endpoints. Newsletters have no
// approval step and are public as soon as they are written.
package newsletter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/handler/http/auth"
	"sportsdesk/internal/handler/http/pathutil"
	"sportsdesk/internal/handler/http/respond"
	"sportsdesk/internal/observability/logging"
	"sportsdesk/internal/repository"
	nlUC "sportsdesk/internal/usecase/newsletter"
)

// Service is implemented by *newsletter.Service.
type Service interface {
	Create(ctx context.Context, author *entity.User, in nlUC.Input) (*repository.NewsletterWithRefs, error)
	List(ctx context.Context) ([]repository.NewsletterWithRefs, error)
	Get(ctx context.Context, id int64) (*repository.NewsletterWithRefs, error)
	Delete(ctx context.Context, actor *entity.User, id int64) error
}

// SummaryDTO is one element of GET /api/newsletters/.
type SummaryDTO struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	League    *string   `json:"league"`
	CreatedAt time.Time `json:"created_at"`
}

// DTO is the detail representation.
type DTO struct {
	SummaryDTO
	Body     string `json:"body"`
	LeagueID *int64 `json:"league_id"`
}

func toSummary(n repository.NewsletterWithRefs) SummaryDTO {
	return SummaryDTO{
		ID:        n.Newsletter.ID,
		Title:     n.Newsletter.Title,
		Author:    n.AuthorUsername,
		League:    n.LeagueName,
		CreatedAt: n.Newsletter.CreatedAt.UTC(),
	}
}

func toDTO(n *repository.NewsletterWithRefs) DTO {
	return DTO{SummaryDTO: toSummary(*n), Body: n.Newsletter.Body, LeagueID: n.Newsletter.LeagueID}
}

func fail(w http.ResponseWriter, r *http.Request, err error) {
	if respond.StatusFor(err) >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("newsletter request failed", "error", err)
	}
	respond.DomainError(w, err)
}

type ListHandler struct{ Svc Service }

// ServeHTTP ニュースレター一覧 (新しい順)
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	out := make([]SummaryDTO, 0, len(list))
	for _, n := range list {
		out = append(out, toSummary(n))
	}
	respond.JSON(w, http.StatusOK, out)
}

type GetHandler struct{ Svc Service }

// ServeHTTP ニュースレター詳細
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusNotFound, errors.New("newsletter not found"))
		return
	}
	n, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(n))
}

type CreateHandler struct{ Svc Service }

// ServeHTTP ニュースレター作成 (Journalist のみ)
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string `json:"title"`
		Body     string `json:"body"`
		LeagueID *int64 `json:"league_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	n, err := h.Svc.Create(r.Context(), auth.ViewerFromContext(r.Context()), nlUC.Input{
		Title:    req.Title,
		Body:     req.Body,
		LeagueID: req.LeagueID,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toDTO(n))
}

type DeleteHandler struct{ Svc Service }

// ServeHTTP ニュースレター削除 (著者または Editor)
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), auth.ViewerFromContext(r.Context()), id); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func Register(mux *http.ServeMux, svc Service) {
	mux.Handle("GET /api/newsletters/{$}", ListHandler{svc})
	mux.Handle("GET /api/newsletters/{id}/{$}", GetHandler{svc})
	mux.Handle("POST /api/newsletters/{$}", auth.RequireRole(entity.RoleJournalist)(CreateHandler{svc}))
	mux.Handle("DELETE /api/newsletters/{id}/{$}", auth.RequireUser(DeleteHandler{svc}))
}
