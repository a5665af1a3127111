package auth

import (
	"errors"
	"net/http"
	"slices"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/handler/http/respond"
)

// RequireUser rejects anonymous requests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ViewerFromContext(r.Context()) == nil {
			respond.SafeError(w, http.StatusUnauthorized, errors.New("unauthorized: authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole allows only viewers holding one of roles. Anonymous requests
// get 401, everyone else 403.
func RequireRole(roles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer := ViewerFromContext(r.Context())
			if viewer == nil {
				recordRoleDenial(roles, nil)
				respond.SafeError(w, http.StatusUnauthorized, errors.New("unauthorized: authentication required"))
				return
			}
			if !slices.Contains(roles, viewer.Role) {
				recordRoleDenial(roles, viewer)
				respond.SafeError(w, http.StatusForbidden, errors.New("forbidden: role "+viewer.Role.Label()+" is not allowed"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
