// Package user provides account endpoints: registration, role administration,
// deletion and the journalist follow graph.
package user

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
	userUC "sportsdesk/internal/usecase/user"
)

// Service is implemented by *user.Service.
type Service interface {
	Register(ctx context.Context, in userUC.RegisterInput) (*entity.User, error)
	ChangeRole(ctx context.Context, id int64, role entity.Role) error
	Delete(ctx context.Context, id int64) error
	Follow(ctx context.Context, followerID, targetID int64) error
	Unfollow(ctx context.Context, followerID, targetID int64) error
	ListFollowing(ctx context.Context, id int64) ([]*entity.User, error)
	ListFollowers(ctx context.Context, id int64) ([]*entity.User, error)
}

// DTO never exposes the password hash. Email is only filled for the account owner.
type DTO struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toDTO(u *entity.User, withEmail bool) DTO {
	dto := DTO{ID: u.ID, Username: u.Username, Role: string(u.Role), CreatedAt: u.CreatedAt.UTC()}
	if withEmail {
		dto.Email = u.Email
	}
	return dto
}

func fail(w http.ResponseWriter, r *http.Request, err error) {
	if respond.StatusFor(err) >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("user request failed", "error", err)
	}
	respond.DomainError(w, err)
}

var errInvalidBody = errors.New("invalid request body")

type RegisterHandler struct{ Svc Service }

// ServeHTTP ユーザー登録 (常に Reader)
func (h RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}
	u, err := h.Svc.Register(r.Context(), userUC.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toDTO(u, true))
}

// MeHandler returns the authenticated account.
func MeHandler(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, toDTO(auth.ViewerFromContext(r.Context()), true))
}

type RoleHandler struct{ Svc Service }

// ServeHTTP ロール変更 (Editor のみ)
func (h RoleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}
	role, err := entity.ParseRole(req.Role)
	if err != nil {
		respond.DomainError(w, err)
		return
	}
	if err := h.Svc.ChangeRole(r.Context(), id, role); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type DeleteHandler struct{ Svc Service }

// ServeHTTP ユーザー削除。記事とニュースレターも消える。
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FollowHandler adds or removes the viewer's follow edge to a journalist.
type FollowHandler struct {
	Svc    Service
	Follow bool
}

// ServeHTTP フォロー / フォロー解除
func (h FollowHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	targetID, err := pathutil.PathID(r, "journalist_id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	viewer := auth.ViewerFromContext(r.Context())
	if h.Follow {
		err = h.Svc.Follow(r.Context(), viewer.ID, targetID)
	} else {
		err = h.Svc.Unfollow(r.Context(), viewer.ID, targetID)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListHandler lists following or followers of a user.
type ListHandler struct {
	List func(ctx context.Context, id int64) ([]*entity.User, error)
}

// ServeHTTP フォロー一覧 / フォロワー一覧
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	users, err := h.List(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	out := make([]DTO, 0, len(users))
	for _, u := range users {
		out = append(out, toDTO(u, false))
	}
	respond.JSON(w, http.StatusOK, out)
}

// Register mounts the account endpoints. register is wrapped around the
// public sign-up route, typically a rate limiter.
func Register(mux *http.ServeMux, svc Service, register func(http.Handler) http.Handler) {
	editorOnly := auth.RequireRole(entity.RoleEditor)
	if register == nil {
		register = func(h http.Handler) http.Handler { return h }
	}

	mux.Handle("POST /api/users/{$}", register(RegisterHandler{svc}))
	mux.Handle("GET /api/users/me/{$}", auth.RequireUser(http.HandlerFunc(MeHandler)))
	mux.Handle("PUT /api/users/{id}/role", editorOnly(RoleHandler{svc}))
	mux.Handle("DELETE /api/users/{id}/{$}", editorOnly(DeleteHandler{svc}))

	mux.Handle("POST /api/users/me/follows/{journalist_id}/{$}", auth.RequireUser(FollowHandler{Svc: svc, Follow: true}))
	mux.Handle("DELETE /api/users/me/follows/{journalist_id}/{$}", auth.RequireUser(FollowHandler{Svc: svc, Follow: false}))
	mux.Handle("GET /api/users/{id}/following/{$}", ListHandler{List: svc.ListFollowing})
	mux.Handle("GET /api/users/{id}/followers/{$}", ListHandler{List: svc.ListFollowers})
}
