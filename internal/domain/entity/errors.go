package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrAccessDenied indicates that the viewer is not allowed to see or change the entity
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidCredentials indicates a failed username/password check
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// UniquenessError is returned when a write would duplicate a unique key,
// such as a league name or a (team name, league) pair.
type UniquenessError struct {
	Entity string
	Fields []string
}

// Error returns a user-presentable message for the uniqueness violation.
func (e *UniquenessError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s already exists", e.Entity)
	}
	return fmt.Sprintf("%s with this %s already exists", e.Entity, strings.Join(e.Fields, " and "))
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsUniqueness reports whether err is (or wraps) a *UniquenessError.
func IsUniqueness(err error) bool {
	var ue *UniquenessError
	return errors.As(err, &ue)
}
