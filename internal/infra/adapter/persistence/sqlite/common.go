package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/infra/db"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Timestamps are stored as unix milliseconds.
func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func toNullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func fromNullMillis(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromMillis(v.Int64)
	return &t
}

// translateError maps constraint violations onto domain errors.
func translateError(err error, entityName string, uniqueFields ...string) error {
	var sqlErr *msqlite.Error
	if !errors.As(err, &sqlErr) {
		return err
	}
	switch sqlErr.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
		return &entity.UniquenessError{Entity: entityName, Fields: uniqueFields}
	case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
		return &entity.ValidationError{Field: entityName, Message: "references a row that does not exist"}
	}
	return err
}

func execAffecting(ctx context.Context, conn db.DBTX, op, query string, args ...interface{}) error {
	res, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: ExecContext: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: RowsAffected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, entity.ErrNotFound)
	}
	return nil
}

// rowsChanged reports whether an idempotent write touched any row.
func rowsChanged(op string, res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: RowsAffected: %w", op, err)
	}
	return n > 0, nil
}
