package entity

import (
	"fmt"
	"strings"
)

const maxTaxonomyNameLength = 120

// League is a top-level grouping of teams, e.g. Premier League or NBA.
type League struct {
	ID   int64
	Name string
}

// Validate checks the league name.
func (l *League) Validate() error {
	return validateTaxonomyName(l.Name)
}

func (l *League) String() string { return l.Name }

// Team belongs to exactly one league. LeagueName is populated by reads only.
type Team struct {
	ID         int64
	Name       string
	LeagueID   int64
	LeagueName string
}

// Validate checks the team name and league reference.
func (t *Team) Validate() error {
	if err := validateTaxonomyName(t.Name); err != nil {
		return err
	}
	if t.LeagueID <= 0 {
		return &ValidationError{Field: "league", Message: "is required"}
	}
	return nil
}

// String renders the team as "Name (League)".
func (t *Team) String() string {
	return fmt.Sprintf("%s (%s)", t.Name, t.LeagueName)
}

func validateTaxonomyName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if len(name) > maxTaxonomyNameLength {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("must not exceed %d characters", maxTaxonomyNameLength)}
	}
	return nil
}
