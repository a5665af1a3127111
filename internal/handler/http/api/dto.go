// Package api serves the public read-only JSON listings: leagues, the teams
// of a league, and approved articles.
package api

import (
	"time"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/repository"
)

// LeagueDTO is one element of GET /api/leagues/.
type LeagueDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TeamDTO is one element of GET /api/teams/{league_id}/. League is the league name.
type TeamDTO struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	League string `json:"league"`
}

// ArticleDTO is one element of GET /api/articles/. League and Team are names
// and are null when unset.
type ArticleDTO struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	League     *string    `json:"league"`
	Team       *string    `json:"team"`
	ApprovedAt *time.Time `json:"approved_at"`
}

func leagueDTOs(leagues []*entity.League) []LeagueDTO {
	out := make([]LeagueDTO, 0, len(leagues))
	for _, l := range leagues {
		out = append(out, LeagueDTO{ID: l.ID, Name: l.Name})
	}
	return out
}

func teamDTOs(teams []*entity.Team) []TeamDTO {
	out := make([]TeamDTO, 0, len(teams))
	for _, t := range teams {
		out = append(out, TeamDTO{ID: t.ID, Name: t.Name, League: t.LeagueName})
	}
	return out
}

// ArticleDTOs converts read models into the listing shape.
func ArticleDTOs(articles []repository.ArticleWithRefs) []ArticleDTO {
	out := make([]ArticleDTO, 0, len(articles))
	for _, a := range articles {
		dto := ArticleDTO{
			ID:     a.Article.ID,
			Title:  a.Article.Title,
			Author: a.AuthorUsername,
			League: a.LeagueName,
			Team:   a.TeamName,
		}
		if a.Article.ApprovedAt != nil {
			at := a.Article.ApprovedAt.UTC()
			dto.ApprovedAt = &at
		}
		out = append(out, dto)
	}
	return out
}
