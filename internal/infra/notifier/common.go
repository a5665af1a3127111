package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"sportsdesk/internal/resilience/circuitbreaker"
	"sportsdesk/internal/resilience/retry"
)

const maxErrorBodyBytes = 512

// webhook is the delivery pipeline shared by the Slack and Discord notifiers:
// rate limiter, then circuit breaker, then retries around a single POST.
type webhook struct {
	name    string
	url     string
	client  *http.Client
	limiter *rate.Limiter
	breaker *circuitbreaker.Breaker
	policy  retry.Policy
}

func newWebhook(name, endpoint string, timeout time.Duration, policy retry.Policy, limit rate.Limit, burst int) webhook {
	if policy.Attempts == 0 {
		policy = retry.Webhook()
	}
	return webhook{
		name:    name,
		url:     endpoint,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, burst),
		breaker: circuitbreaker.New(circuitbreaker.Webhook(name)),
		policy:  policy,
	}
}

func (w *webhook) deliver(ctx context.Context, payload any, attrs ...slog.Attr) error {
	logger := slog.Default().With(
		slog.String("delivery_id", uuid.NewString()),
		slog.String("channel", w.name))

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", w.name, err)
	}
	if err := w.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s rate limit wait: %w", w.name, err)
	}

	_, err = circuitbreaker.Do(w.breaker, func() (struct{}, error) {
		return struct{}{}, retry.Do(ctx, w.policy, func(ctx context.Context) error {
			return w.post(ctx, body)
		})
	})
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "webhook delivery failed", append(attrs, slog.Any("error", err))...)
		return fmt.Errorf("%s notification failed: %w", w.name, err)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "webhook delivery succeeded", attrs...)
	return nil
}

// BreakerOpen reports whether deliveries are currently short-circuited.
func (w *webhook) BreakerOpen() bool {
	return w.breaker.IsOpen()
}

// post sends one request. Non-2xx answers become *retry.StatusError.
func (w *webhook) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		// *url.Error carries the webhook URL, which embeds the token
		return fmt.Errorf("post %s webhook: %w", w.name, unwrapURLError(err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	return retry.NewStatusError(resp, string(bytes.TrimSpace(msg)), time.Now())
}

func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}

// truncate shortens text to maxLength bytes, appending suffix when cut.
func truncate(text string, maxLength int, suffix string) string {
	if len(text) <= maxLength {
		return text
	}
	return text[:max(maxLength-len(suffix), 0)] + suffix
}
