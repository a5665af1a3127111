// Package article provides the article write paths and the approval
// workflow. Every write goes through Service.Save.
package article

import (
	"fmt"

	"sportsdesk/internal/domain/entity"
)

// Sentinel errors for article use case operations.
var (
	// ErrArticleNotFound indicates that the requested article was not found.
	ErrArticleNotFound = fmt.Errorf("article %w", entity.ErrNotFound)

	// ErrInvalidArticleID indicates that the provided article ID is invalid.
	// Article IDs must be positive integers.
	ErrInvalidArticleID = fmt.Errorf("invalid article ID: %w", entity.ErrInvalidInput)

	// ErrNotAuthor is returned when someone other than the author edits an article.
	ErrNotAuthor = fmt.Errorf("only the author may edit this article: %w", entity.ErrAccessDenied)

	// ErrNotJournalist is returned when a non-journalist tries to write.
	ErrNotJournalist = fmt.Errorf("only journalists may write articles: %w", entity.ErrAccessDenied)

	// ErrNotEditor is returned when a non-editor tries to change approval.
	ErrNotEditor = fmt.Errorf("only editors may approve articles: %w", entity.ErrAccessDenied)
)
