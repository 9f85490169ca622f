package qonto

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/custodia-labs/qontosync/internal/core/domain"
	"github.com/custodia-labs/qontosync/internal/core/ports/driven"
)

// DefaultBaseURL is the production endpoint of the Qonto third-party API.
const DefaultBaseURL = "https://thirdparty.qonto.com/v2"

const (
	perPage        = 100
	requestTimeout = 30 * time.Second
)

// Ensure Client implements the port.
var _ driven.Source = (*Client)(nil)

// Client talks to the Qonto third-party API on behalf of one bank account.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	login         string
	secret        string
	bankAccountID string
	limiter       *RateLimiter
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit overrides the default client-side rate limit.
func WithRateLimit(cfg RateLimitConfig) Option {
	return func(c *Client) { c.limiter = NewRateLimiter(cfg) }
}

// NewClient creates a Qonto API client.
func NewClient(login, secret, bankAccountID string, opts ...Option) *Client {
	c := &Client{
		httpClient:    &http.Client{Timeout: requestTimeout},
		baseURL:       DefaultBaseURL,
		login:         login,
		secret:        secret,
		bankAccountID: bankAccountID,
		limiter:       NewRateLimiter(DefaultRateLimit),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListLabels returns the full label index, following pagination.
func (c *Client) ListLabels(ctx context.Context) (domain.LabelIndex, error) {
	index := make(domain.LabelIndex)
	for page := 1; ; page++ {
		params := url.Values{
			"bank_account_id": {c.bankAccountID},
			"page":            {strconv.Itoa(page)},
			"per_page":        {strconv.Itoa(perPage)},
		}
		var resp labelsResponse
		if err := c.get(ctx, "/labels", params, &resp); err != nil {
			return nil, fmt.Errorf("list labels page %d: %w", page, err)
		}
		for _, l := range resp.Labels {
			index[l.ID] = l.Name
		}
		if resp.Meta.NextPage == nil {
			return index, nil
		}
	}
}

// ListTransactions returns the transactions with attachments settled
// inside [from, to], sorted by settlement time ascending.
func (c *Client) ListTransactions(ctx context.Context, from, to time.Time) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	for page := 1; ; page++ {
		params := url.Values{
			"bank_account_id":  {c.bankAccountID},
			"with_attachments": {"true"},
			"settled_at_from":  {formatTimestamp(from)},
			"settled_at_to":    {formatTimestamp(to)},
			"sort_by":          {"settled_at:asc"},
			"page":             {strconv.Itoa(page)},
			"per_page":         {strconv.Itoa(perPage)},
		}
		var resp transactionsResponse
		if err := c.get(ctx, "/transactions", params, &resp); err != nil {
			return nil, fmt.Errorf("list transactions page %d: %w", page, err)
		}
		for _, t := range resp.Transactions {
			txs = append(txs, t.toDomain())
		}
		if resp.Meta.NextPage == nil {
			return txs, nil
		}
	}
}

// ListAttachments returns the documents attached to one transaction.
func (c *Client) ListAttachments(ctx context.Context, transactionID string) ([]domain.Document, error) {
	var resp attachmentsResponse
	if err := c.get(ctx, "/transactions/"+transactionID+"/attachments", nil, &resp); err != nil {
		return nil, fmt.Errorf("list attachments of %s: %w", transactionID, err)
	}
	docs := make([]domain.Document, 0, len(resp.Attachments))
	for _, a := range resp.Attachments {
		docs = append(docs, a.toDomain())
	}
	return docs, nil
}

// FetchBytes downloads attachment content from its pre-signed URL.
// The URL embeds its own authorisation, so no auth header is sent.
func (c *Client) FetchBytes(ctx context.Context, contentURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, contentURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch content: %w: %w", domain.ErrTransient, err)
	}
	defer resp.Body.Close()

	if err := c.classifyStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read content: %w: %w", domain.ErrTransient, err)
	}
	return data, nil
}

// get performs one authenticated GET and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", c.login+":"+c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransient, err)
	}
	defer resp.Body.Close()

	if err := c.classifyStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// classifyStatus maps HTTP failures onto the domain error taxonomy.
func (c *Client) classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: qonto API rejected credentials (status %d)", domain.ErrConfig, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, resp.Request.URL.Path)
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		c.limiter.RecordRateLimitError(retryAfter)
		return fmt.Errorf("%w: rate limited (status 429)", domain.ErrTransient)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: server error (status %d)", domain.ErrTransient, resp.StatusCode)
	default:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}

// formatTimestamp renders a window bound the way the API expects:
// millisecond precision with a literal Z suffix.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000") + "Z"
}
