// Package article provides the write API for articles and the JSON detail
// view with draft visibility.
package article

import (
	"time"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/repository"
)

// DTO is the full JSON representation of an article.
type DTO struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	AuthorID   int64      `json:"author_id"`
	Author     string     `json:"author,omitempty"`
	LeagueID   *int64     `json:"league_id"`
	League     *string    `json:"league,omitempty"`
	TeamID     *int64     `json:"team_id"`
	Team       *string    `json:"team,omitempty"`
	Approved   bool       `json:"approved"`
	ApprovedBy *int64     `json:"approved_by"`
	ApprovedAt *time.Time `json:"approved_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// request is the body of POST /api/articles/ and PUT /api/articles/{id}/.
type request struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	LeagueID *int64 `json:"league_id"`
	TeamID   *int64 `json:"team_id"`
}

func toDTO(a *entity.Article) DTO {
	dto := DTO{
		ID:         a.ID,
		Title:      a.Title,
		Body:       a.Body,
		AuthorID:   a.AuthorID,
		LeagueID:   a.LeagueID,
		TeamID:     a.TeamID,
		Approved:   a.Approved,
		ApprovedBy: a.ApprovedBy,
		CreatedAt:  a.CreatedAt.UTC(),
		UpdatedAt:  a.UpdatedAt.UTC(),
	}
	if a.ApprovedAt != nil {
		at := a.ApprovedAt.UTC()
		dto.ApprovedAt = &at
	}
	return dto
}

func toDetailDTO(a *repository.ArticleWithRefs) DTO {
	dto := toDTO(a.Article)
	dto.Author = a.AuthorUsername
	dto.League = a.LeagueName
	dto.Team = a.TeamName
	return dto
}
