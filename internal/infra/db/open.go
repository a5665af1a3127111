package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"sportsdesk/internal/pkg/config"
)

// Driver names as registered with database/sql.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// DBTX is the subset of *sql.DB used by the repositories. It is satisfied by
// *sql.DB and by the circuit-breaker wrapper.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ConnectionConfig holds database connection pool configuration.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns the default connection pool configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,               // Maximum number of open connections
		MaxIdleConns:    10,               // Maximum number of idle connections
		ConnMaxLifetime: 1 * time.Hour,    // Maximum lifetime of a connection
		ConnMaxIdleTime: 30 * time.Minute, // Maximum idle time of a connection
	}
}

// DriverFromEnv returns DB_DRIVER, defaulting to postgres.
func DriverFromEnv() string {
	if d := os.Getenv("DB_DRIVER"); d != "" {
		return d
	}
	return DriverPostgres
}

// OpenFromEnv opens the pool described by DB_DRIVER, DATABASE_URL and the
// DB_* pool variables, returning the driver name alongside it.
func OpenFromEnv() (*sql.DB, string, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, "", errors.New("DATABASE_URL not set")
	}
	driver := DriverFromEnv()
	conn, err := OpenDSN(driver, dsn, PoolFromEnv())
	return conn, driver, err
}

// OpenDSN opens a pool for the given driver and verifies it with a ping.
// SQLite is limited to a single connection and always has foreign keys enabled.
func OpenDSN(driver, dsn string, cfg ConnectionConfig) (*sql.DB, error) {
	switch driver {
	case DriverPostgres:
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
		cfg.MaxOpenConns = 1
		cfg.MaxIdleConns = 1
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (must be %s or %s)", driver, DriverPostgres, DriverSQLite)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	slog.Info("database connection pool configured",
		slog.String("driver", driver),
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns),
		slog.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", cfg.ConnMaxIdleTime))

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("database connection established successfully")
	return db, nil
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// PoolFromEnv reads DB_MAX_OPEN_CONNS, DB_MAX_IDLE_CONNS,
// DB_CONN_MAX_LIFETIME and DB_CONN_MAX_IDLE_TIME. Missing or invalid values
// keep the defaults; invalid ones are logged.
func PoolFromEnv() ConnectionConfig {
	cfg := DefaultConnectionConfig()
	positive := func(n int) error { return config.ValidateIntRange(n, 1, 10000) }

	cfg.MaxOpenConns = warn(config.LoadInt("DB_MAX_OPEN_CONNS", cfg.MaxOpenConns, positive))
	cfg.MaxIdleConns = warn(config.LoadInt("DB_MAX_IDLE_CONNS", cfg.MaxIdleConns, positive))
	cfg.ConnMaxLifetime = warn(config.LoadDuration("DB_CONN_MAX_LIFETIME", cfg.ConnMaxLifetime, config.ValidatePositiveDuration))
	cfg.ConnMaxIdleTime = warn(config.LoadDuration("DB_CONN_MAX_IDLE_TIME", cfg.ConnMaxIdleTime, config.ValidatePositiveDuration))
	return cfg
}

func warn[T any](r config.Result[T]) T {
	if r.FallbackApplied {
		slog.Warn("invalid pool setting, using default", slog.String("detail", r.Warning))
	}
	return r.Value
}
