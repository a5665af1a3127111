package pathutil

import (
	"errors"
	"net/http"
	"strconv"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = errors.New("invalid id")

// ParseID parses a positive int64 path segment.
//
// Example:
//
//	id, err := ParseID("123")
//	// Returns: 123, nil
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// PathID reads the named wildcard of a ServeMux pattern such as
// "GET /api/teams/{league_id}/" and parses it with ParseID.
func PathID(r *http.Request, name string) (int64, error) {
	return ParseID(r.PathValue(name))
}

// ParseKey parses a digit-only path segment, zero included. Lookups keyed
// by it treat unknown values as empty results rather than errors.
func ParseKey(raw string) (int64, error) {
	id, err := strconv.ParseUint(raw, 10, 63)
	if err != nil {
		return 0, ErrInvalidID
	}
	return int64(id), nil
}
