package db

import (
	"database/sql"
	"fmt"
	"log/slog"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id            BIGSERIAL PRIMARY KEY,
    username      VARCHAR(150) NOT NULL UNIQUE,
    email         TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL DEFAULT '',
    role          VARCHAR(20) NOT NULL DEFAULT 'READER',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE TABLE IF NOT EXISTS user_follows (
    follower_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    followed_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (follower_id, followed_id)
)`,
	`CREATE TABLE IF NOT EXISTS leagues (
    id   BIGSERIAL PRIMARY KEY,
    name VARCHAR(120) NOT NULL UNIQUE
)`,
	`CREATE TABLE IF NOT EXISTS teams (
    id        BIGSERIAL PRIMARY KEY,
    name      VARCHAR(120) NOT NULL,
    league_id BIGINT NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
    UNIQUE (name, league_id)
)`,
	`CREATE TABLE IF NOT EXISTS articles (
    id          BIGSERIAL PRIMARY KEY,
    title       VARCHAR(200) NOT NULL,
    body        TEXT NOT NULL,
    author_id   BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    league_id   BIGINT REFERENCES leagues(id) ON DELETE SET NULL,
    team_id     BIGINT REFERENCES teams(id) ON DELETE SET NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    approved    BOOLEAN NOT NULL DEFAULT FALSE,
    approved_by BIGINT REFERENCES users(id) ON DELETE SET NULL,
    approved_at TIMESTAMPTZ
)`,
	`CREATE TABLE IF NOT EXISTS newsletters (
    id         BIGSERIAL PRIMARY KEY,
    title      VARCHAR(200) NOT NULL,
    body       TEXT NOT NULL,
    author_id  BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    league_id  BIGINT REFERENCES leagues(id) ON DELETE SET NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	// ホームフィード: WHERE approved ORDER BY approved_at DESC, created_at DESC
	`CREATE INDEX IF NOT EXISTS idx_articles_feed ON articles(approved, approved_at DESC, created_at DESC)`,
	// レビュー待ち一覧
	`CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles(created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_author_id ON articles(author_id)`,
	`CREATE INDEX IF NOT EXISTS idx_teams_league_id ON teams(league_id)`,
	`CREATE INDEX IF NOT EXISTS idx_newsletters_created_at ON newsletters(created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_user_follows_followed ON user_follows(followed_id)`,
}

// Timestamps are stored as unix milliseconds in SQLite so ordering is numeric.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT NOT NULL UNIQUE,
    email         TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL DEFAULT '',
    role          TEXT NOT NULL DEFAULT 'READER',
    created_at    INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS user_follows (
    follower_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    followed_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at  INTEGER NOT NULL,
    PRIMARY KEY (follower_id, followed_id)
)`,
	`CREATE TABLE IF NOT EXISTS leagues (
    id   INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
)`,
	`CREATE TABLE IF NOT EXISTS teams (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    name      TEXT NOT NULL,
    league_id INTEGER NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
    UNIQUE (name, league_id)
)`,
	`CREATE TABLE IF NOT EXISTS articles (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    title       TEXT NOT NULL,
    body        TEXT NOT NULL,
    author_id   INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    league_id   INTEGER REFERENCES leagues(id) ON DELETE SET NULL,
    team_id     INTEGER REFERENCES teams(id) ON DELETE SET NULL,
    created_at  INTEGER NOT NULL,
    updated_at  INTEGER NOT NULL,
    approved    INTEGER NOT NULL DEFAULT 0,
    approved_by INTEGER REFERENCES users(id) ON DELETE SET NULL,
    approved_at INTEGER
)`,
	`CREATE TABLE IF NOT EXISTS newsletters (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    title      TEXT NOT NULL,
    body       TEXT NOT NULL,
    author_id  INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    league_id  INTEGER REFERENCES leagues(id) ON DELETE SET NULL,
    created_at INTEGER NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_feed ON articles(approved, approved_at DESC, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles(created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_teams_league_id ON teams(league_id)`,
	`CREATE INDEX IF NOT EXISTS idx_newsletters_created_at ON newsletters(created_at DESC)`,
}

// MigrateUp creates the schema for the given driver. It is idempotent.
func MigrateUp(db *sql.DB, driver string) error {
	var stmts []string
	switch driver {
	case DriverPostgres:
		stmts = postgresSchema
	case DriverSQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("migrate: unsupported driver %q", driver)
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// 既存環境向け: role制約はPostgreSQLのみ。既存チェックは DO ブロック内で行う
	if driver == DriverPostgres {
		if _, err := db.Exec(`
DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint
        WHERE conname = 'chk_users_role'
    ) THEN
        ALTER TABLE users ADD CONSTRAINT chk_users_role
        CHECK (role IN ('READER', 'JOURNALIST', 'EDITOR'));
    END IF;
END $$;
`); err != nil {
			// 不正な role を持つ既存行など。スキーマ自体は使える
			slog.Warn("migrate: users role constraint not added", slog.Any("error", err))
		}
	}

	return nil
}

// MigrateDown drops every table in reverse dependency order.
// Use with caution: this will delete all data.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS newsletters`,
		`DROP TABLE IF EXISTS articles`,
		`DROP TABLE IF EXISTS teams`,
		`DROP TABLE IF EXISTS leagues`,
		`DROP TABLE IF EXISTS user_follows`,
		`DROP TABLE IF EXISTS users`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
