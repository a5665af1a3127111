package article

import (
	"net/http"
	"strconv"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/handler/http/auth"
)

// Register mounts the article write API and the JSON detail view. The mux
// must sit behind auth.Authenticate.
func Register(mux *http.ServeMux, writer Writer, reader Reader) {
	editorOnly := auth.RequireRole(entity.RoleEditor)

	mux.Handle("GET /api/articles/{id}/{$}", GetHandler{reader})
	mux.Handle("POST /api/articles/{$}", auth.RequireRole(entity.RoleJournalist)(CreateHandler{writer}))
	mux.Handle("PUT /api/articles/{id}/{$}", auth.RequireUser(UpdateHandler{writer}))
	mux.Handle("DELETE /api/articles/{id}/{$}", auth.RequireUser(DeleteHandler{writer}))
	mux.Handle("POST /api/articles/{id}/approve/{$}", editorOnly(ApprovalHandler{Svc: writer, Approve: true}))
	mux.Handle("POST /api/articles/{id}/unapprove/{$}", editorOnly(ApprovalHandler{Svc: writer, Approve: false}))
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
