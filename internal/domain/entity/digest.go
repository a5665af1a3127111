package entity

import (
	"fmt"
	"time"
)

// Digest is the periodic editorial summary posted to chat channels: how many
// drafts wait for review and which articles were approved since the last run.
type Digest struct {
	GeneratedAt  time.Time
	Since        time.Time
	PendingCount int64
	Approved     []DigestItem
}

// DigestItem is one approved article in a digest.
type DigestItem struct {
	ArticleID  int64
	Title      string // display name, e.g. "Derby day [Arsenal]"
	Author     string
	URL        string // empty when no public base URL is configured
	ApprovedAt time.Time
}

// IsEmpty reports whether there is nothing worth posting.
func (d *Digest) IsEmpty() bool {
	return d.PendingCount == 0 && len(d.Approved) == 0
}

// Headline is the one-line fallback text used by chat clients.
func (d *Digest) Headline() string {
	return fmt.Sprintf("%d approved since %s, %d awaiting review",
		len(d.Approved), d.Since.UTC().Format("2006-01-02 15:04 MST"), d.PendingCount)
}
