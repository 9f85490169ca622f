package qonto

import "github.com/custodia-labs/qontosync/internal/core/domain"

// Wire types for the Qonto v2 API. Only the fields the sync needs are
// decoded; everything else is ignored.

type meta struct {
	NextPage *int `json:"next_page"`
}

type labelsResponse struct {
	Labels []apiLabel `json:"labels"`
	Meta   meta       `json:"meta"`
}

type apiLabel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type transactionsResponse struct {
	Transactions []apiTransaction `json:"transactions"`
	Meta         meta             `json:"meta"`
}

type apiTransaction struct {
	ID                    string   `json:"id"`
	Amount                float64  `json:"amount"`
	CleanCounterpartyName string   `json:"clean_counterparty_name"`
	Label                 string   `json:"label"`
	SettledAt             string   `json:"settled_at"`
	LabelIDs              []string `json:"label_ids"`
}

func (t apiTransaction) toDomain() domain.Transaction {
	return domain.Transaction{
		ID:           t.ID,
		Amount:       t.Amount,
		Counterparty: t.CleanCounterpartyName,
		Label:        t.Label,
		SettledAt:    t.SettledAt,
		LabelIDs:     t.LabelIDs,
	}
}

type attachmentsResponse struct {
	Attachments []apiAttachment `json:"attachments"`
}

type apiAttachment struct {
	ID              string `json:"id"`
	FileName        string `json:"file_name"`
	FileSize        int64  `json:"file_size"`
	CreatedAt       string `json:"created_at"`
	FileContentType string `json:"file_content_type"`
	URL             string `json:"url"`
}

func (a apiAttachment) toDomain() domain.Document {
	name := a.FileName
	if name == "" {
		name = a.ID + ".bin"
	}
	return domain.Document{
		ID:           a.ID,
		OriginalName: name,
		ByteSize:     a.FileSize,
		CreatedAt:    a.CreatedAt,
		ContentType:  a.FileContentType,
		ContentURL:   a.URL,
	}
}
