// Package slack posts run summaries to a Slack incoming webhook using
// Block Kit, with a plain-text fallback when the rich payload is
// rejected. Delivery failures are reported to the caller, which only
// logs them; notifications never affect the sync outcome.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/qontosync/internal/core/domain"
	"github.com/custodia-labs/qontosync/internal/core/ports/driven"
	"github.com/custodia-labs/qontosync/internal/logger"
)

// DefaultMaxLines caps the item list so the payload stays inside Slack's
// block size limits.
const DefaultMaxLines = 30

const postTimeout = 10 * time.Second

// Ensure Notifier implements the port.
var _ driven.Notifier = (*Notifier)(nil)

// Notifier posts to one incoming webhook.
type Notifier struct {
	webhookURL string
	maxLines   int
	httpClient *http.Client
}

// Option customises a Notifier.
type Option func(*Notifier)

// WithMaxLines overrides the item list cap.
func WithMaxLines(n int) Option {
	return func(s *Notifier) {
		if n > 0 {
			s.maxLines = n
		}
	}
}

// WithHTTPClient overrides the HTTP client. Used by tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Notifier) { s.httpClient = hc }
}

// New creates a notifier for the given webhook URL.
func New(webhookURL string, opts ...Option) *Notifier {
	n := &Notifier{
		webhookURL: webhookURL,
		maxLines:   DefaultMaxLines,
		httpClient: &http.Client{Timeout: postTimeout},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify posts the run summary. When the Block Kit payload is rejected it
// retries once with the plain-text fallback before giving up.
func (n *Notifier) Notify(ctx context.Context, summary *domain.Summary) error {
	payload := buildPayload(summary, n.maxLines)
	err := n.post(ctx, payload)
	if err == nil {
		return nil
	}
	logger.Warn("Slack rejected rich payload, retrying plain text: %v", err)

	fallback := map[string]any{"text": plainText(summary, n.maxLines)}
	if err := n.post(ctx, fallback); err != nil {
		return fmt.Errorf("slack fallback: %w", err)
	}
	return nil
}

func (n *Notifier) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack responded %d: %s", resp.StatusCode, msg)
	}
	return nil
}

// buildPayload assembles the Block Kit message: a headline section, the
// capped item list, and a context block with container links.
func buildPayload(summary *domain.Summary, maxLines int) map[string]any {
	count := len(summary.NewItems)
	headline := fmt.Sprintf("*%d new receipts* added %s", count, summary.PeriodLabel)

	blocks := []map[string]any{
		{
			"type": "section",
			"text": map[string]any{"type": "mrkdwn", "text": headline},
		},
	}

	if lines := itemLines(summary, maxLines, " · "); len(lines) > 0 {
		blocks = append(blocks, map[string]any{
			"type": "section",
			"text": map[string]any{"type": "mrkdwn", "text": strings.Join(lines, "\n")},
		})
	}

	if len(summary.GroupLinks) > 0 {
		groups := make([]string, 0, len(summary.GroupLinks))
		for group := range summary.GroupLinks {
			groups = append(groups, group)
		}
		sort.Strings(groups)

		links := make([]string, 0, len(groups))
		for _, group := range groups {
			links = append(links, fmt.Sprintf("<%s|%s>", summary.GroupLinks[group], group))
		}
		blocks = append(blocks, map[string]any{
			"type": "context",
			"elements": []map[string]any{
				{"type": "mrkdwn", "text": "Folders: " + strings.Join(links, " ")},
			},
		})
	}

	return map[string]any{
		"text":   fmt.Sprintf("%d new receipts added %s.", count, summary.PeriodLabel),
		"blocks": blocks,
	}
}

// plainText is the degraded single-string rendition of the summary.
func plainText(summary *domain.Summary, maxLines int) string {
	lines := itemLines(summary, maxLines, " | ")
	return fmt.Sprintf("%d new receipts added %s.\n%s",
		len(summary.NewItems), summary.PeriodLabel, strings.Join(lines, "\n"))
}

// itemLines renders one bullet per new item, truncated to maxLines with
// an overflow marker.
func itemLines(summary *domain.Summary, maxLines int, sep string) []string {
	var lines []string
	for _, item := range summary.NewItems {
		if len(lines) >= maxLines {
			break
		}
		var parts []string
		if item.Date != "" {
			parts = append(parts, item.Date)
		}
		if item.Author != "" {
			parts = append(parts, item.Author)
		}
		parts = append(parts, formatAmount(item.Amount))

		lines = append(lines, fmt.Sprintf("• %s — %s", strings.Join(parts, sep), item.Name))
	}

	if remaining := len(summary.NewItems) - len(lines); remaining > 0 {
		lines = append(lines, fmt.Sprintf("… and %d more", remaining))
	}
	return lines
}

func formatAmount(amount float64) string {
	if amount == float64(int64(amount)) {
		return fmt.Sprintf("%d€", int64(amount))
	}
	return fmt.Sprintf("%.2f€", amount)
}
