package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/resilience/retry"
)

// DiscordConfig contains configuration for Discord webhook notifications.
type DiscordConfig struct {
	// Enabled indicates whether Discord notifications are enabled
	Enabled bool

	// WebhookURL is the Discord webhook URL (includes authentication token)
	WebhookURL string

	// Timeout is the HTTP request timeout for Discord API calls
	Timeout time.Duration

	// Retry overrides retry.Webhook when Attempts is set.
	Retry retry.Policy
}

// DiscordNotifier sends digests to Discord as a single embed.
type DiscordNotifier struct {
	webhook
}

// NewDiscordNotifier creates a DiscordNotifier limited to 2 requests/second
// with a burst of 5 (Discord allows 5 requests per 2 seconds per webhook).
func NewDiscordNotifier(config DiscordConfig) *DiscordNotifier {
	return &DiscordNotifier{newWebhook("discord", config.WebhookURL, config.Timeout, config.Retry, 2, 5)}
}

// DiscordWebhookPayload represents the JSON payload sent to a Discord webhook.
type DiscordWebhookPayload struct {
	Content string         `json:"content"`
	Embeds  []DiscordEmbed `json:"embeds"`
}

// DiscordEmbed represents a Discord embed object.
type DiscordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Color       int                 `json:"color"`
	Fields      []DiscordEmbedField `json:"fields,omitempty"`
	Footer      DiscordEmbedFooter  `json:"footer"`
	Timestamp   string              `json:"timestamp"`
}

// DiscordEmbedField is one name/value row in an embed.
type DiscordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// DiscordEmbedFooter represents the footer of a Discord embed.
type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

const (
	// Discord embed limits
	maxEmbedDescriptionLength = 4096
	maxEmbedFields            = 25
	maxFieldValueLength       = 1024

	discordTruncationSuffix = "..."
	discordEmbedColor       = 0x2E7D32
)

func (d *DiscordNotifier) Name() string { return "discord" }

func buildDiscordPayload(d *entity.Digest) DiscordWebhookPayload {
	fields := make([]DiscordEmbedField, 0, len(d.Approved))
	for i, item := range d.Approved {
		if i == maxEmbedFields {
			break
		}
		value := "by " + item.Author
		if item.URL != "" {
			value = fmt.Sprintf("%s • %s", value, item.URL)
		}
		fields = append(fields, DiscordEmbedField{
			Name:  truncate(item.Title, 256, discordTruncationSuffix),
			Value: truncate(value, maxFieldValueLength, discordTruncationSuffix),
		})
	}

	return DiscordWebhookPayload{
		Content: "Editorial digest",
		Embeds: []DiscordEmbed{{
			Title:       fmt.Sprintf("%d article(s) approved", len(d.Approved)),
			Description: truncate(d.Headline(), maxEmbedDescriptionLength, discordTruncationSuffix),
			Color:       discordEmbedColor,
			Fields:      fields,
			Footer:      DiscordEmbedFooter{Text: fmt.Sprintf("%d awaiting review", d.PendingCount)},
			Timestamp:   d.GeneratedAt.UTC().Format(time.RFC3339),
		}},
	}
}

// NotifyDigest implements Notifier.
func (d *DiscordNotifier) NotifyDigest(ctx context.Context, digest *entity.Digest) error {
	return d.deliver(ctx, buildDiscordPayload(digest),
		slog.Int("approved", len(digest.Approved)),
		slog.Int64("pending", digest.PendingCount))
}
