package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/resilience/retry"
)

// SlackConfig contains configuration for Slack webhook notifications.
type SlackConfig struct {
	// Enabled indicates whether Slack notifications are enabled
	Enabled bool

	// WebhookURL is the Slack Incoming Webhook URL (includes authentication token)
	WebhookURL string

	// Timeout is the HTTP request timeout for Slack API calls
	Timeout time.Duration

	// Retry overrides retry.Webhook when Attempts is set.
	Retry retry.Policy
}

// SlackNotifier sends digests to Slack via Incoming Webhook using Block Kit.
type SlackNotifier struct {
	webhook
}

// NewSlackNotifier creates a SlackNotifier limited to 1 request/second
// (the Incoming Webhook limit).
func NewSlackNotifier(config SlackConfig) *SlackNotifier {
	return &SlackNotifier{newWebhook("slack", config.WebhookURL, config.Timeout, config.Retry, 1, 1)}
}

// SlackWebhookPayload represents the JSON payload sent to Slack webhook using Block Kit.
type SlackWebhookPayload struct {
	Text   string       `json:"text"`   // Fallback text (required)
	Blocks []SlackBlock `json:"blocks"` // Rich formatting blocks
}

// SlackBlock represents a Slack Block Kit block.
type SlackBlock struct {
	Type     string            `json:"type"`               // "header", "section", "context"
	Text     *SlackTextObject  `json:"text,omitempty"`     // Text content (for header/section)
	Elements []SlackTextObject `json:"elements,omitempty"` // Elements (for context)
}

// SlackTextObject represents a text object in Slack Block Kit.
type SlackTextObject struct {
	Type string `json:"type"` // "mrkdwn" or "plain_text"
	Text string `json:"text"` // Actual text content
}

const (
	// Slack Block Kit limits
	maxSectionTextLength = 3000
	maxHeaderTextLength  = 150

	slackTruncationSuffix = "..."
)

func (s *SlackNotifier) Name() string { return "slack" }

// buildBlockKitPayload renders the digest as a header, one section listing
// approved articles, and a context line with the review queue size.
func buildBlockKitPayload(d *entity.Digest) SlackWebhookPayload {
	var b strings.Builder
	if len(d.Approved) == 0 {
		b.WriteString("_No articles approved since the last digest._")
	}
	for _, item := range d.Approved {
		title := item.Title
		if item.URL != "" {
			title = fmt.Sprintf("<%s|%s>", item.URL, item.Title)
		}
		fmt.Fprintf(&b, "• *%s* by %s\n", title, item.Author)
	}

	return SlackWebhookPayload{
		Text: truncate("Editorial digest: "+d.Headline(), maxHeaderTextLength, slackTruncationSuffix),
		Blocks: []SlackBlock{
			{Type: "header", Text: &SlackTextObject{Type: "plain_text", Text: "Editorial digest"}},
			{Type: "section", Text: &SlackTextObject{
				Type: "mrkdwn",
				Text: truncate(strings.TrimRight(b.String(), "\n"), maxSectionTextLength, slackTruncationSuffix),
			}},
			{Type: "context", Elements: []SlackTextObject{{
				Type: "mrkdwn",
				Text: fmt.Sprintf("%d awaiting review • %s", d.PendingCount, d.GeneratedAt.UTC().Format(time.RFC3339)),
			}}},
		},
	}
}

// NotifyDigest implements Notifier.
func (s *SlackNotifier) NotifyDigest(ctx context.Context, d *entity.Digest) error {
	return s.deliver(ctx, buildBlockKitPayload(d),
		slog.Int("approved", len(d.Approved)),
		slog.Int64("pending", d.PendingCount))
}
