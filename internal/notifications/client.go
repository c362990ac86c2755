package notifications

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sales_ledger/internal/ledger"
	"sales_ledger/internal/processing"
	"sales_ledger/internal/retry"

	"github.com/rs/zerolog/log"
)

// maxEventsShown bounds the special vendor lines listed in one message.
const maxEventsShown = 10

type Client struct {
	httpClient *http.Client
	baseURL    string
	topic      string
	enabled    bool
	retry      retry.Config
}

type NotificationError struct {
	Type       string
	StatusCode int
	Underlying error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification failed [%s]: %v", e.Type, e.Underlying)
}

func (e *NotificationError) Unwrap() error {
	return e.Underlying
}

func (e *NotificationError) IsRetryable() bool {
	switch e.Type {
	case "network", "server", "rate_limit":
		return true
	case "auth", "client":
		return false
	default:
		return e.StatusCode >= 500
	}
}

// IsRetryable classifies errors returned by sendOnce.
func IsRetryable(err error) bool {
	var notifErr *NotificationError
	if errors.As(err, &notifErr) {
		return notifErr.IsRetryable()
	}
	return false
}

func NewClient(baseURL, topic string, enabled bool, config retry.Config) *Client {
	config.Retryable = IsRetryable
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		topic:   topic,
		enabled: enabled,
		retry:   config,
	}
}

// Send posts message to the topic, retrying network, server and rate-limit
// failures.
func (c *Client) Send(ctx context.Context, title, priority, message string) error {
	if !c.enabled {
		log.Debug().Msg("Notifications disabled, skipping")
		return nil
	}

	return retry.Do(ctx, c.retry, func(ctx context.Context) error {
		return c.sendOnce(ctx, title, priority, message)
	})
}

func (c *Client) sendOnce(ctx context.Context, title, priority, message string) error {
	url := fmt.Sprintf("%s/%s", c.baseURL, c.topic)

	log.Debug().
		Str("url", url).
		Str("title", title).
		Msg("Sending notification")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString(message))
	if err != nil {
		return &NotificationError{Type: "client", Underlying: err}
	}

	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if title != "" {
		req.Header.Set("Title", title)
	}
	if priority != "" {
		req.Header.Set("Priority", priority)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NotificationError{Type: "network", Underlying: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &NotificationError{
			Type:       categorizeHTTPError(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Underlying: fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status),
		}
	}

	log.Debug().
		Int("status_code", resp.StatusCode).
		Msg("Notification sent successfully")
	return nil
}

// Report sends the run summary, raised to high priority when reserved vendor
// codes were used or sheets were skipped.
func (c *Client) Report(ctx context.Context, summary processing.Summary, events []ledger.SpecialVendorEvent) error {
	priority := "default"
	if len(events) > 0 || summary.SheetsSkipped > 0 {
		priority = "high"
	}
	return c.Send(ctx, "Sales ledger", priority, formatReport(summary, events))
}

func formatReport(summary processing.Summary, events []ledger.SpecialVendorEvent) string {
	var sb strings.Builder
	sb.WriteString(summary.String())

	if len(events) > 0 {
		sb.WriteString("\nSpecial vendor codes used:")
		shown := min(len(events), maxEventsShown)
		for _, e := range events[:shown] {
			sb.WriteString(fmt.Sprintf("\n• %s %s (%s)", e.Date, e.VendorCode, e.SheetName))
		}
		if len(events) > shown {
			sb.WriteString(fmt.Sprintf("\n... and %d more", len(events)-shown))
		}
	}
	return sb.String()
}

func categorizeHTTPError(statusCode int) string {
	switch {
	case statusCode == 401 || statusCode == 403:
		return "auth"
	case statusCode == 429:
		return "rate_limit"
	case statusCode >= 400 && statusCode < 500:
		return "client"
	case statusCode >= 500:
		return "server"
	default:
		return "unknown"
	}
}
