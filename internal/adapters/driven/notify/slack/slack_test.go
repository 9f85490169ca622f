package slack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qontosync/internal/core/domain"
)

func testSummary() *domain.Summary {
	return &domain.Summary{
		RunID:       "run-1",
		PeriodLabel: "for 2025-06",
		Fetched:     2,
		NewItems: []domain.NewItem{
			{Name: "invoice-42EUR-ACME-20250603-a.pdf", Amount: 42, Author: "ACME", Date: "2025-06-03", Group: "2025-06"},
			{Name: "receipt-9.90EUR-Cafe-20250604-b.jpg", Amount: 9.9, Author: "Cafe", Date: "2025-06-04", Group: "2025-06"},
		},
		GroupLinks: map[string]string{
			"2025-06": "https://drive.google.com/drive/folders/abc",
		},
	}
}

func TestNotifyPostsBlockKitPayload(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, n.Notify(context.Background(), testSummary()))

	assert.Equal(t, "2 new receipts added for 2025-06.", payload["text"])

	blocks, ok := payload["blocks"].([]any)
	require.True(t, ok)
	require.Len(t, blocks, 3)

	headline := blocks[0].(map[string]any)["text"].(map[string]any)["text"].(string)
	assert.Equal(t, "*2 new receipts* added for 2025-06", headline)

	items := blocks[1].(map[string]any)["text"].(map[string]any)["text"].(string)
	assert.Contains(t, items, "invoice-42EUR-ACME-20250603-a.pdf")
	assert.Contains(t, items, "42€")
	assert.Contains(t, items, "9.90€")

	links := blocks[2].(map[string]any)["elements"].([]any)[0].(map[string]any)["text"].(string)
	assert.Contains(t, links, "<https://drive.google.com/drive/folders/abc|2025-06>")
}

func TestNotifyFallsBackToPlainText(t *testing.T) {
	var calls int
	var lastBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		body, _ := io.ReadAll(r.Body)
		lastBody = string(body)
		if strings.Contains(lastBody, "blocks") {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, "invalid_blocks")
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, n.Notify(context.Background(), testSummary()))

	assert.Equal(t, 2, calls)
	assert.Contains(t, lastBody, "2 new receipts added for 2025-06.")
}

func TestNotifyReportsHardFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, "no_service")
	}))
	defer srv.Close()

	n := New(srv.URL, WithHTTPClient(srv.Client()))
	err := n.Notify(context.Background(), testSummary())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestItemListTruncation(t *testing.T) {
	summary := &domain.Summary{PeriodLabel: "for 2025-06"}
	for i := 0; i < 40; i++ {
		summary.NewItems = append(summary.NewItems, domain.NewItem{
			Name: "doc.pdf", Amount: 1, Author: "X", Date: "2025-06-01",
		})
	}

	lines := itemLines(summary, 30, " · ")
	require.Len(t, lines, 31)
	assert.Equal(t, "… and 10 more", lines[30])

	// A custom cap through the option changes the cut-off.
	n := New("http://unused", WithMaxLines(5))
	assert.Equal(t, 5, n.maxLines)
}

func TestItemLinesOmitsMissingFields(t *testing.T) {
	summary := &domain.Summary{
		NewItems: []domain.NewItem{{Name: "doc.pdf", Amount: 3}},
	}
	lines := itemLines(summary, 30, " · ")
	require.Len(t, lines, 1)
	assert.Equal(t, "• 3€ — doc.pdf", lines[0])
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "42€", formatAmount(42))
	assert.Equal(t, "9.90€", formatAmount(9.9))
	assert.Equal(t, "-12.34€", formatAmount(-12.34))
	assert.Equal(t, "0€", formatAmount(0))
}
