package article

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
	"sportsdesk/internal/repository"
	artUC "sportsdesk/internal/usecase/article"
)

// Writer is implemented by *article.Service.
type Writer interface {
	Create(ctx context.Context, author *entity.User, in artUC.Input) (*entity.Article, error)
	Update(ctx context.Context, actor *entity.User, id int64, in artUC.Input) (*entity.Article, error)
	Approve(ctx context.Context, editor *entity.User, id int64) (*entity.Article, error)
	Unapprove(ctx context.Context, editor *entity.User, id int64) (*entity.Article, error)
	Delete(ctx context.Context, actor *entity.User, id int64) error
}

// Reader is implemented by *feed.Service.
type Reader interface {
	Detail(ctx context.Context, id int64, viewer *entity.User) (*repository.ArticleWithRefs, error)
}

var errInvalidBody = errors.New("invalid request body")

func decode(r *http.Request) (artUC.Input, error) {
	var req request
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return artUC.Input{}, errInvalidBody
	}
	return artUC.Input{Title: req.Title, Body: req.Body, LeagueID: req.LeagueID, TeamID: req.TeamID}, nil
}

func fail(w http.ResponseWriter, r *http.Request, err error) {
	if respond.StatusFor(err) >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("article request failed", "error", err)
	}
	respond.DomainError(w, err)
}

type CreateHandler struct{ Svc Writer }

// ServeHTTP 記事作成 (Journalist のみ、未承認で作成)
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	in, err := decode(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	a, err := h.Svc.Create(r.Context(), auth.ViewerFromContext(r.Context()), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/articles/"+itoa(a.ID)+"/")
	respond.JSON(w, http.StatusCreated, toDTO(a))
}

type UpdateHandler struct{ Svc Writer }

// ServeHTTP 記事更新 (著者のみ)
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	in, err := decode(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	a, err := h.Svc.Update(r.Context(), auth.ViewerFromContext(r.Context()), id, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(a))
}

// ApprovalHandler toggles approval. Approve records the caller as the
// approving editor.
type ApprovalHandler struct {
	Svc     Writer
	Approve bool
}

// ServeHTTP 承認 / 承認取り消し (Editor のみ)
func (h ApprovalHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	viewer := auth.ViewerFromContext(r.Context())

	var a *entity.Article
	if h.Approve {
		a, err = h.Svc.Approve(r.Context(), viewer, id)
	} else {
		a, err = h.Svc.Unapprove(r.Context(), viewer, id)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(a))
}

type DeleteHandler struct{ Svc Writer }

// ServeHTTP 記事削除 (著者または Editor)
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

type GetHandler struct{ Svc Reader }

// ServeHTTP 記事詳細。下書きは著者と Editor のみ閲覧可。
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusNotFound, errors.New("article not found"))
		return
	}
	a, err := h.Svc.Detail(r.Context(), id, auth.ViewerFromContext(r.Context()))
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDetailDTO(a))
}
