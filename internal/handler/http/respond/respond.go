// Package respond writes JSON bodies and maps domain errors to statuses.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"sportsdesk/internal/domain/entity"
)

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// JSON writes v with the given status. A nil v writes headers only.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// ヘッダー送信済みなのでログのみ
		slog.Error("encode response", slog.Int("status_code", code), slog.Any("error", err))
	}
}

// Error writes err's message verbatim.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, errorBody{Error: err.Error()})
}

// safePhrases mark messages written for the client (validation, lookups,
// permission checks). Anything else may carry driver or network detail.
var safePhrases = []string{
	"required", "invalid", "not found", "already exists",
	"must be", "must not", "cannot", "does not exist", "does not belong",
	"is not a", "not allowed", "only ", "unauthorized", "forbidden",
	"too large", "too long", "rate limit",
}

func clientSafe(code int, msg string) bool {
	if code >= http.StatusInternalServerError {
		return false
	}
	msg = strings.ToLower(msg)
	for _, p := range safePhrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// SafeError writes err's message when it is meant for the client and a
// generic "internal server error" otherwise, logging the sanitized original.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}
	if msg := err.Error(); clientSafe(code, msg) {
		JSON(w, code, errorBody{Error: msg})
		return
	}
	slog.Error("internal server error",
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, errorBody{Error: "internal server error"})
}

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case entity.IsValidation(err), errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case entity.IsUniqueness(err):
		return http.StatusConflict
	case errors.Is(err, entity.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// DomainError writes err with the status StatusFor picks. Validation errors
// also carry the offending field; credential failures never say which part
// was wrong.
func DomainError(w http.ResponseWriter, err error) {
	code := StatusFor(err)
	var ve *entity.ValidationError
	switch {
	case errors.As(err, &ve):
		JSON(w, code, errorBody{Error: ve.Error(), Field: ve.Field})
	case code == http.StatusUnauthorized:
		JSON(w, code, errorBody{Error: "invalid credentials"})
	default:
		SafeError(w, code, err)
	}
}
