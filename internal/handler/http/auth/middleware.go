// Package auth contains the HTTP side of authentication: the token endpoint,
// the middleware that resolves the viewer from a JWT, and role guards.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/handler/http/respond"
	authservice "sportsdesk/internal/service/auth"
)

// CookieName is the cookie the token endpoint sets for browser pages.
const CookieName = "sportsdesk_token"

type ctxKey string

const ctxViewer ctxKey = "viewer"

// TokenParser verifies raw tokens.
type TokenParser interface {
	Parse(raw string) (*authservice.Claims, error)
}

// UserLookup loads the current state of a user.
type UserLookup interface {
	Get(ctx context.Context, id int64) (*entity.User, error)
}

// ViewerFromContext returns the authenticated user, or nil for anonymous requests.
func ViewerFromContext(ctx context.Context) *entity.User {
	u, _ := ctx.Value(ctxViewer).(*entity.User)
	return u
}

// WithViewer stores u as the request's viewer.
func WithViewer(ctx context.Context, u *entity.User) context.Context {
	return context.WithValue(ctx, ctxViewer, u)
}

// Authenticate resolves the viewer from a bearer token or the session cookie.
// Requests without a token continue anonymously. An invalid bearer token is
// rejected with 401; an invalid cookie is cleared and the request continues
// anonymously. The user row is reloaded on every request, so role changes and
// deletions apply immediately.
func Authenticate(tokens TokenParser, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, source := tokenFromRequest(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			viewer, err := resolve(r.Context(), tokens, users, raw)
			switch {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), viewer)))
			case errors.Is(err, authservice.ErrInvalidToken) || errors.Is(err, entity.ErrNotFound):
				recordTokenRejection(source)
				if source == "header" {
					respond.SafeError(w, http.StatusUnauthorized, errors.New("unauthorized: invalid token"))
					return
				}
				ClearCookie(w)
				next.ServeHTTP(w, r)
			default:
				slog.ErrorContext(r.Context(), "resolve viewer failed", slog.Any("error", err))
				respond.SafeError(w, http.StatusInternalServerError, err)
			}
		})
	}
}

func resolve(ctx context.Context, tokens TokenParser, users UserLookup, raw string) (*entity.User, error) {
	claims, err := tokens.Parse(raw)
	if err != nil {
		return nil, err
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	return users.Get(ctx, id)
}

func tokenFromRequest(r *http.Request) (token, source string) {
	const prefix = "Bearer "
	if h := r.Header.Get("Authorization"); h != "" {
		if !strings.HasPrefix(h, prefix) {
			// 不正な形式もトークン不正として扱う
			return h, "header"
		}
		return strings.TrimSpace(strings.TrimPrefix(h, prefix)), "header"
	}
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value, "cookie"
	}
	return "", ""
}
