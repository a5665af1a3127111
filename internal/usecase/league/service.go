// Package league provides use cases for the league/team taxonomy.
package league

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/repository"
)

var (
	ErrLeagueNotFound = fmt.Errorf("league %w", entity.ErrNotFound)
	ErrTeamNotFound   = fmt.Errorf("team %w", entity.ErrNotFound)
	ErrInvalidID      = fmt.Errorf("invalid ID: %w", entity.ErrInvalidInput)
)

// Service manages leagues and the teams that belong to them.
type Service struct {
	Leagues repository.LeagueRepository
	Teams   repository.TeamRepository
}

// ListLeagues returns every league ordered by name.
func (s *Service) ListLeagues(ctx context.Context) ([]*entity.League, error) {
	leagues, err := s.Leagues.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	return leagues, nil
}

// GetLeague retrieves a league by ID.
func (s *Service) GetLeague(ctx context.Context, id int64) (*entity.League, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	l, err := s.Leagues.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}
	if l == nil {
		return nil, ErrLeagueNotFound
	}
	return l, nil
}

// CreateLeague adds a league. Names are unique.
func (s *Service) CreateLeague(ctx context.Context, name string) (*entity.League, error) {
	l := &entity.League{Name: strings.TrimSpace(name)}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if err := s.Leagues.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create league: %w", err)
	}
	return l, nil
}

// DeleteLeague removes a league and its teams. Content that referenced the
// league survives with no league.
func (s *Service) DeleteLeague(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if err := s.Leagues.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrLeagueNotFound
		}
		return fmt.Errorf("delete league: %w", err)
	}
	return nil
}

// ListTeams returns the teams of a league. Unknown leagues yield an empty
// list rather than an error.
func (s *Service) ListTeams(ctx context.Context, leagueID int64) ([]*entity.Team, error) {
	teams, err := s.Teams.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	if teams == nil {
		teams = []*entity.Team{}
	}
	return teams, nil
}

// GetTeam retrieves a team by ID.
func (s *Service) GetTeam(ctx context.Context, id int64) (*entity.Team, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	t, err := s.Teams.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	}
	if t == nil {
		return nil, ErrTeamNotFound
	}
	return t, nil
}

// CreateTeam adds a team to an existing league. (name, league) is unique.
func (s *Service) CreateTeam(ctx context.Context, name string, leagueID int64) (*entity.Team, error) {
	t := &entity.Team{Name: strings.TrimSpace(name), LeagueID: leagueID}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	l, err := s.Leagues.Get(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}
	if l == nil {
		return nil, &entity.ValidationError{Field: "league", Message: fmt.Sprintf("league %d does not exist", leagueID)}
	}
	if err := s.Teams.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}
	t.LeagueName = l.Name
	return t, nil
}

// DeleteTeam removes a team; articles that referenced it lose their team.
func (s *Service) DeleteTeam(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if err := s.Teams.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("delete team: %w", err)
	}
	return nil
}
