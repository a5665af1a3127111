package db

import (
	"bytes"
	"errors"
	"log/slog"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateUp_Postgres(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	for _, stmt := range postgresSchema {
		mock.ExpectExec(regexp.QuoteMeta(stmt)).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec("chk_users_role").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, MigrateUp(conn, DriverPostgres))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_RoleConstraintFailureIsLogged(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	for _, stmt := range postgresSchema {
		mock.ExpectExec(regexp.QuoteMeta(stmt)).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec("chk_users_role").
		WillReturnError(errors.New(`check constraint "chk_users_role" is violated by some row`))

	require.NoError(t, MigrateUp(conn, DriverPostgres), "schema is still usable")
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), "users role constraint not added")
	assert.Contains(t, buf.String(), "is violated by some row")
}

func TestMigrateUp_StopsOnFirstError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	mock.ExpectExec(regexp.QuoteMeta(postgresSchema[0])).WillReturnError(errors.New("disk full"))

	err = MigrateUp(conn, DriverPostgres)
	assert.EqualError(t, err, "migrate: disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateDown(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	for _, table := range []string{"newsletters", "articles", "teams", "leagues", "user_follows", "users"} {
		mock.ExpectExec("DROP TABLE IF EXISTS " + table).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, MigrateDown(conn))
	assert.NoError(t, mock.ExpectationsWereMet())
}
