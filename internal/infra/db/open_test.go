package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolFromEnv(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "50")
	t.Setenv("DB_MAX_IDLE_CONNS", "invalid")
	t.Setenv("DB_CONN_MAX_LIFETIME", "2h")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "-1m")

	cfg := PoolFromEnv()
	def := DefaultConnectionConfig()

	assert.Equal(t, 50, cfg.MaxOpenConns)
	assert.Equal(t, def.MaxIdleConns, cfg.MaxIdleConns)
	assert.Equal(t, 2*time.Hour, cfg.ConnMaxLifetime)
	assert.Equal(t, def.ConnMaxIdleTime, cfg.ConnMaxIdleTime)
}

func TestDriverFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	assert.Equal(t, DriverPostgres, DriverFromEnv())
	t.Setenv("DB_DRIVER", "sqlite")
	assert.Equal(t, DriverSQLite, DriverFromEnv())
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "news.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("news.db"))
	assert.Equal(t, "file:news.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("file:news.db?mode=rwc"))
}

func TestOpenFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, _, err := OpenFromEnv()
	assert.EqualError(t, err, "DATABASE_URL not set")

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", filepath.Join(t.TempDir(), "env.db"))
	conn, driver, err := OpenFromEnv()
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	assert.Equal(t, DriverSQLite, driver)
	assert.Equal(t, 1, conn.Stats().MaxOpenConnections)
}
