package persistence

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportsdesk/internal/infra/db"
)

func TestNew(t *testing.T) {
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	for _, driver := range []string{db.DriverPostgres, db.DriverSQLite} {
		repos, err := New(driver, conn)
		require.NoError(t, err, driver)
		assert.NotNil(t, repos.Users)
		assert.NotNil(t, repos.Leagues)
		assert.NotNil(t, repos.Teams)
		assert.NotNil(t, repos.Articles)
		assert.NotNil(t, repos.Newsletters)
	}

	_, err = New("mysql", conn)
	assert.Error(t, err)
}
