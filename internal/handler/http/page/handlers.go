package page

import (
	"context"
	"errors"
	"net/http"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/handler/http/auth"
	"sportsdesk/internal/handler/http/pathutil"
	"sportsdesk/internal/observability/logging"
	"sportsdesk/internal/repository"
	"sportsdesk/internal/usecase/feed"
)

// Reader is implemented by *feed.Service.
type Reader interface {
	Home(ctx context.Context) (*feed.Home, error)
	Detail(ctx context.Context, id int64, viewer *entity.User) (*repository.ArticleWithRefs, error)
	PendingReview(ctx context.Context) ([]repository.ArticleWithRefs, error)
}

// Handlers renders the HTML pages.
type Handlers struct {
	Svc      Reader
	Renderer *Renderer
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name string, data *pageData) {
	data.Viewer = auth.ViewerFromContext(r.Context())
	if err := h.Renderer.Render(w, status, name, data); err != nil {
		h.serverError(w, r, err)
	}
}

func (h *Handlers) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context()).Error("page failed", "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Home トップページ: 承認済み記事とリーグ一覧
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	home, err := h.Svc.Home(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "home", &pageData{
		Flash:    popFlash(w, r),
		Leagues:  home.Leagues,
		Articles: toViews(home.Articles),
	})
}

// Detail 記事詳細。閲覧できない下書きはトップへリダイレクトしてメッセージを表示する。
func (h *Handlers) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		h.notFound(w, r)
		return
	}
	a, err := h.Svc.Detail(r.Context(), id, auth.ViewerFromContext(r.Context()))
	switch {
	case err == nil:
		v := toView(*a)
		h.render(w, r, http.StatusOK, "detail", &pageData{Article: &v})
	case feed.IsDraftHidden(err):
		setFlash(w, feed.DraftDeniedMessage)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, entity.ErrNotFound):
		h.notFound(w, r)
	default:
		h.serverError(w, r, err)
	}
}

// Review 承認待ち一覧。アクセス制御なし。
func (h *Handlers) Review(w http.ResponseWriter, r *http.Request) {
	pending, err := h.Svc.PendingReview(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "review", &pageData{Articles: toViews(pending)})
}

func (h *Handlers) notFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "notfound", &pageData{Message: "No article matches the given ID."})
}

func Register(mux *http.ServeMux, h *Handlers) {
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /article/{id}/{$}", h.Detail)
	mux.HandleFunc("GET /review/{$}", h.Review)
}
