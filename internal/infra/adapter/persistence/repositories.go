// Package persistence picks the repository implementations for a driver.
package persistence

import (
	"fmt"

	"sportsdesk/internal/infra/adapter/persistence/postgres"
	"sportsdesk/internal/infra/adapter/persistence/sqlite"
	"sportsdesk/internal/infra/db"
	"sportsdesk/internal/repository"
)

// Repositories bundles every repository over one connection.
type Repositories struct {
	Users       repository.UserRepository
	Leagues     repository.LeagueRepository
	Teams       repository.TeamRepository
	Articles    repository.ArticleRepository
	Newsletters repository.NewsletterRepository
}

func New(driver string, conn db.DBTX) (*Repositories, error) {
	switch driver {
	case db.DriverPostgres:
		return &Repositories{
			Users:       postgres.NewUserRepo(conn),
			Leagues:     postgres.NewLeagueRepo(conn),
			Teams:       postgres.NewTeamRepo(conn),
			Articles:    postgres.NewArticleRepo(conn),
			Newsletters: postgres.NewNewsletterRepo(conn),
		}, nil
	case db.DriverSQLite:
		return &Repositories{
			Users:       sqlite.NewUserRepo(conn),
			Leagues:     sqlite.NewLeagueRepo(conn),
			Teams:       sqlite.NewTeamRepo(conn),
			Articles:    sqlite.NewArticleRepo(conn),
			Newsletters: sqlite.NewNewsletterRepo(conn),
		}, nil
	default:
		return nil, fmt.Errorf("no repositories for driver %q", driver)
	}
}
