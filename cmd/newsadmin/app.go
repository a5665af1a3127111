package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"sportsdesk/internal/infra/adapter/persistence"
	"sportsdesk/internal/infra/db"
	"sportsdesk/internal/pkg/config"
	"sportsdesk/internal/usecase/article"
	"sportsdesk/internal/usecase/league"
	"sportsdesk/internal/usecase/user"
)

// app holds the connection shared by every subcommand. It is opened lazily
// in the root command's pre-run hook.
type app struct {
	driver string
	dsn    string
	// bcryptCost is passed to the user service; zero means the default.
	bcryptCost int

	db    *sql.DB
	repos *persistence.Repositories
}

func (a *app) open() error {
	if a.db != nil {
		return nil
	}
	if a.dsn == "" {
		return fmt.Errorf("no database: set DATABASE_URL or --database-url")
	}
	conn, err := db.OpenDSN(a.driver, a.dsn, db.DefaultConnectionConfig())
	if err != nil {
		return err
	}
	repos, err := persistence.New(a.driver, conn)
	if err != nil {
		_ = conn.Close()
		return err
	}
	a.db, a.repos = conn, repos
	return nil
}

func (a *app) close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		slog.Warn("close database", slog.Any("error", err))
	}
	a.db = nil
}

func (a *app) users() *user.Service {
	return &user.Service{Repo: a.repos.Users, BcryptCost: a.bcryptCost}
}

func (a *app) taxonomy() *league.Service {
	return &league.Service{Leagues: a.repos.Leagues, Teams: a.repos.Teams}
}

func (a *app) articles() *article.Service {
	return &article.Service{
		Repo:    a.repos.Articles,
		Users:   a.repos.Users,
		Leagues: a.repos.Leagues,
		Teams:   a.repos.Teams,
	}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "newsadmin",
		Short:        "Administer the sportsdesk database",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.open()
		},
	}

	cmd.PersistentFlags().StringVar(&a.driver, "driver", db.DriverFromEnv(), "database driver (pgx or sqlite)")
	cmd.PersistentFlags().StringVar(&a.dsn, "database-url", config.GetEnvString("DATABASE_URL", ""), "connection string or sqlite file path")

	cmd.AddCommand(
		migrateCmd(a),
		seedCmd(a),
		usersCmd(a),
		leaguesCmd(a),
		teamsCmd(a),
		approvalCmd(a, true),
		approvalCmd(a, false),
	)
	return cmd
}
