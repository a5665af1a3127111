package circuitbreaker

import (
	"context"
	"database/sql"
	"time"

	"github.com/sony/gobreaker"

	"sportsdesk/internal/observability/metrics"
)

// DB satisfies db.DBTX. Queries and statements go through the database
// breaker and their latency is recorded per operation.
type DB struct {
	conn    *sql.DB
	breaker *Breaker
}

func NewDB(conn *sql.DB) *DB {
	return NewDBWithConfig(conn, Database())
}

func NewDBWithConfig(conn *sql.DB, cfg Config) *DB {
	return &DB{conn: conn, breaker: New(cfg)}
}

func observe(op string, start time.Time) {
	metrics.DBQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	defer observe("query", time.Now())
	return Do(d.breaker, func() (*sql.Rows, error) {
		return d.conn.QueryContext(ctx, query, args...)
	})
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer observe("exec", time.Now())
	return Do(d.breaker, func() (sql.Result, error) {
		return d.conn.ExecContext(ctx, query, args...)
	})
}

// QueryRowContext bypasses the breaker: *sql.Row defers its error to Scan,
// after the breaker would have to decide.
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	defer observe("query_row", time.Now())
	return d.conn.QueryRowContext(ctx, query, args...)
}

func (d *DB) State() gobreaker.State { return d.breaker.State() }
func (d *DB) IsOpen() bool           { return d.breaker.IsOpen() }

// Conn returns the unprotected pool, for migrations and health pings.
func (d *DB) Conn() *sql.DB { return d.conn }
