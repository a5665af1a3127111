package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed seeds/taxonomy.yaml
var defaultSeedYAML []byte

// Seed describes leagues and their teams to insert at bootstrap time.
type Seed struct {
	Leagues []SeedLeague `yaml:"leagues"`
}

// SeedLeague is one league entry of a seed file.
type SeedLeague struct {
	Name  string   `yaml:"name"`
	Teams []string `yaml:"teams"`
}

// DefaultSeed returns the embedded taxonomy seed.
func DefaultSeed() (*Seed, error) {
	return ParseSeed(defaultSeedYAML)
}

// LoadSeed reads a YAML seed file.
// The path parameter is expected to come from a trusted source (command-line argument or env).
func LoadSeed(path string) (*Seed, error) {
	// #nosec G304 -- path is provided by trusted source
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates seed YAML.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for i, l := range seed.Leagues {
		if strings.TrimSpace(l.Name) == "" {
			return nil, fmt.Errorf("parse seed: league #%d has no name", i+1)
		}
	}
	return &seed, nil
}

// ApplySeed inserts the seed's leagues and teams, skipping rows that already exist.
// It returns the number of leagues and teams actually inserted.
func ApplySeed(ctx context.Context, db *sql.DB, driver string, seed *Seed) (leagues, teams int, err error) {
	var insertLeague, selectLeague, insertTeam string
	switch driver {
	case DriverPostgres:
		insertLeague = `INSERT INTO leagues (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`
		selectLeague = `SELECT id FROM leagues WHERE name = $1`
		insertTeam = `INSERT INTO teams (name, league_id) VALUES ($1, $2) ON CONFLICT (name, league_id) DO NOTHING`
	case DriverSQLite:
		insertLeague = `INSERT OR IGNORE INTO leagues (name) VALUES (?)`
		selectLeague = `SELECT id FROM leagues WHERE name = ?`
		insertTeam = `INSERT OR IGNORE INTO teams (name, league_id) VALUES (?, ?)`
	default:
		return 0, 0, fmt.Errorf("seed: unsupported driver %q", driver)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("seed: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, l := range seed.Leagues {
		res, err := tx.ExecContext(ctx, insertLeague, l.Name)
		if err != nil {
			return 0, 0, fmt.Errorf("seed: insert league %q: %w", l.Name, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			leagues++
		}

		var leagueID int64
		if err := tx.QueryRowContext(ctx, selectLeague, l.Name).Scan(&leagueID); err != nil {
			return 0, 0, fmt.Errorf("seed: lookup league %q: %w", l.Name, err)
		}

		for _, name := range l.Teams {
			res, err := tx.ExecContext(ctx, insertTeam, name, leagueID)
			if err != nil {
				return 0, 0, fmt.Errorf("seed: insert team %q: %w", name, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				teams++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("seed: commit: %w", err)
	}
	return leagues, teams, nil
}
