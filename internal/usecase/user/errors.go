// Package user provides account use cases: registration, credential checks,
// role administration and the journalist follow graph.
package user

import (
	"fmt"

	"sportsdesk/internal/domain/entity"
)

var (
	// ErrUserNotFound wraps entity.ErrNotFound so handlers can map it to 404.
	ErrUserNotFound = fmt.Errorf("user %w", entity.ErrNotFound)

	// ErrInvalidUserID indicates a non-positive user ID.
	ErrInvalidUserID = fmt.Errorf("invalid user ID: %w", entity.ErrInvalidInput)
)
