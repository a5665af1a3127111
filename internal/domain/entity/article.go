// Package entity defines the core domain entities and validation logic for the application.
// It contains users and their roles, the league/team taxonomy, and the articles and
// newsletters journalists publish, along with their validation rules and domain errors.
package entity

import (
	"fmt"
	"strings"
	"time"
)

const maxTitleLength = 200

// Article is a piece of sports content written by a journalist. It becomes
// publicly visible once an editor approves it.
type Article struct {
	ID         int64
	Title      string
	Body       string
	AuthorID   int64
	LeagueID   *int64
	TeamID     *int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Approved   bool
	ApprovedBy *int64
	ApprovedAt *time.Time
}

// Validate checks the article fields. It never mutates the article and is
// always run before anything is persisted.
func (a *Article) Validate() error {
	if err := validateContent(a.Title, a.Body, a.AuthorID); err != nil {
		return err
	}
	if a.Approved && a.ApprovedBy == nil {
		return &ValidationError{Field: "approved_by", Message: "approved articles must include an approving editor"}
	}
	return nil
}

// PrepareSave validates the article and applies the save-time side effects:
// timestamps are refreshed and ApprovedAt is stamped the first time the
// article is saved as approved. An existing ApprovedAt is never overwritten,
// even if the article was unapproved in between.
func (a *Article) PrepareSave(now time.Time) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	if a.Approved && a.ApprovedAt == nil {
		t := now
		a.ApprovedAt = &t
	}
	return nil
}

// Approve marks the article approved. The editor is recorded only when no
// approver is set yet; later approvals keep the first one.
func (a *Article) Approve(editorID int64) {
	a.Approved = true
	if a.ApprovedBy == nil {
		a.ApprovedBy = &editorID
	}
}

// Unapprove withdraws approval. ApprovedAt and ApprovedBy are left untouched.
func (a *Article) Unapprove() {
	a.Approved = false
}

// VisibleTo reports whether viewer may read the article. Approved articles
// are public; drafts are limited to their author and to editors. A nil
// viewer is anonymous.
func (a *Article) VisibleTo(viewer *User) bool {
	if a.Approved {
		return true
	}
	if viewer == nil {
		return false
	}
	return viewer.ID == a.AuthorID || viewer.Role.CanViewDrafts()
}

// DisplayName renders "Title [context]" where context is the team name,
// else the league name, else "General".
func (a *Article) DisplayName(leagueName, teamName string) string {
	ctx := "General"
	switch {
	case teamName != "":
		ctx = teamName
	case leagueName != "":
		ctx = leagueName
	}
	return fmt.Sprintf("%s [%s]", a.Title, ctx)
}

// Newsletter is long-form journalist content with no approval gate.
type Newsletter struct {
	ID        int64
	Title     string
	Body      string
	AuthorID  int64
	LeagueID  *int64
	CreatedAt time.Time
}

// Validate checks the newsletter fields.
func (n *Newsletter) Validate() error {
	return validateContent(n.Title, n.Body, n.AuthorID)
}

func (n *Newsletter) String() string { return "Newsletter: " + n.Title }

func validateContent(title, body string, authorID int64) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if len(title) > maxTitleLength {
		return &ValidationError{Field: "title", Message: fmt.Sprintf("must not exceed %d characters", maxTitleLength)}
	}
	if strings.TrimSpace(body) == "" {
		return &ValidationError{Field: "body", Message: "is required"}
	}
	if authorID <= 0 {
		return &ValidationError{Field: "author", Message: "is required"}
	}
	return nil
}
