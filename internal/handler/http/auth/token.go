package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"sportsdesk/internal/handler/http/requestid"
	"sportsdesk/internal/handler/http/respond"
	authservice "sportsdesk/internal/service/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    int64     `json:"user_id"`
	Role      string    `json:"role"`
}

// TokenHandler exchanges a username and password for a JWT.
// The token is returned in the body and also set as an HttpOnly cookie so
// the server-rendered pages see the same identity.
func TokenHandler(svc *authservice.AuthService, secureCookie bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := slog.With(slog.String("request_id", requestid.FromContext(r.Context())))

		var req loginRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
			recordLogin(loginBadRequest, start)
			respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
			return
		}

		token, user, exp, err := svc.Login(r.Context(), authservice.Credentials{Username: req.Username, Password: req.Password})
		if err != nil {
			recordLogin(loginRejected, start)
			logger.Warn("authentication failed", slog.String("username", req.Username))
			respond.DomainError(w, err)
			return
		}

		role := string(user.Role)
		recordLogin(loginOK, start)
		logger.Info("authentication successful",
			slog.Int64("user_id", user.ID),
			slog.String("role", role))

		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    token,
			Path:     "/",
			Expires:  exp,
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
		respond.JSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: exp.UTC(), UserID: user.ID, Role: role})
	}
}

// LogoutHandler clears the session cookie.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// ClearCookie expires the session cookie.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
