package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"sportsdesk/internal/domain/entity"
)

// SQLSTATE codes handled explicitly.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// translateError maps constraint violations onto domain errors. Other errors
// are returned unchanged.
func translateError(err error, entityName string, uniqueFields ...string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case uniqueViolation:
		return &entity.UniquenessError{Entity: entityName, Fields: uniqueFields}
	case foreignKeyViolation:
		return &entity.ValidationError{Field: pgErr.ConstraintName, Message: "references a row that does not exist"}
	}
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}
