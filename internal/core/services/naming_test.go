package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/qontosync/internal/core/domain"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "clean name untouched", input: "invoice", want: "invoice"},
		{name: "illegal characters replaced", input: `a<b>c:d"e/f\g|h?i*j`, want: "a_b_c_d_e_f_g_h_i_j"},
		{name: "whitespace collapsed", input: "my  receipt  name", want: "my_receipt_name"},
		{name: "mixed runs collapsed", input: "a_ _ _b", want: "a_b"},
		{name: "leading and trailing trimmed", input: "__receipt__", want: "receipt"},
		{name: "empty string", input: "", want: ""},
		{name: "only illegal characters", input: `<>:"/\|?*`, want: ""},
		{name: "only whitespace", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"invoice.pdf",
		`a<b>c:d"e/f\g|h?i*j`,
		"  spaced   out  ",
		"___",
		"",
		`<>:"/\|?*`,
		"normal-name_with-bits",
	}

	for _, input := range inputs {
		once := Sanitize(input)
		assert.Equal(t, once, Sanitize(once), "sanitizing %q twice diverged", input)
	}
}

func TestComputeName(t *testing.T) {
	index := domain.LabelIndex{"L1": "Travel", "L2": "Team Lunch"}

	tx := domain.Transaction{
		ID:           "tx-1",
		Amount:       42,
		Counterparty: "ACME",
		SettledAt:    "2025-06-03T10:00:00Z",
		LabelIDs:     []string{"L1"},
	}

	got := ComputeName("invoice.pdf", tx, index, "abcd1234")
	assert.Equal(t, "invoice-42EUR-ACME-20250603-Travel-abcd1234.pdf", got)
}

func TestComputeNameFractionalAmount(t *testing.T) {
	tx := domain.Transaction{
		Amount:       42.5,
		Counterparty: "ACME",
		SettledAt:    "2025-06-03T10:00:00Z",
		LabelIDs:     []string{"L1"},
	}
	got := ComputeName("invoice.pdf", tx, domain.LabelIndex{"L1": "Travel"}, "abcd1234")
	assert.Equal(t, "invoice-42.50EUR-ACME-20250603-Travel-abcd1234.pdf", got)
}

func TestComputeNameDeterministic(t *testing.T) {
	index := domain.LabelIndex{"L1": "Travel", "L2": "Lunch"}
	tx := domain.Transaction{
		Amount:       17.99,
		Counterparty: "Cafe du Coin",
		SettledAt:    "2025-03-14T08:00:00Z",
		LabelIDs:     []string{"L2", "L1"},
	}

	first := ComputeName("receipt scan.jpg", tx, index, "tok1")
	second := ComputeName("receipt scan.jpg", tx, index, "tok1")
	assert.Equal(t, first, second)
}

func TestComputeNameEdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		original string
		tx       domain.Transaction
		index    domain.LabelIndex
		token    string
		want     string
	}{
		{
			name:     "missing settlement date falls back",
			original: "doc.pdf",
			tx:       domain.Transaction{Amount: 10, Counterparty: "X"},
			token:    "t1",
			want:     "doc-10EUR-X-unknown-t1.pdf",
		},
		{
			name:     "unparsable settlement date falls back",
			original: "doc.pdf",
			tx:       domain.Transaction{Amount: 10, Counterparty: "X", SettledAt: "not-a-date"},
			token:    "t1",
			want:     "doc-10EUR-X-unknown-t1.pdf",
		},
		{
			name:     "unknown label ids dropped",
			original: "doc.pdf",
			tx: domain.Transaction{
				Amount: 5, Counterparty: "X",
				SettledAt: "2025-01-02T00:00:00Z",
				LabelIDs:  []string{"missing", "L1"},
			},
			index: domain.LabelIndex{"L1": "Travel"},
			token: "t1",
			want:  "doc-5EUR-X-20250102-Travel-t1.pdf",
		},
		{
			name:     "no resolved labels omits segment",
			original: "doc.pdf",
			tx: domain.Transaction{
				Amount: 5, Counterparty: "X",
				SettledAt: "2025-01-02T00:00:00Z",
				LabelIDs:  []string{"missing"},
			},
			index: domain.LabelIndex{},
			token: "t1",
			want:  "doc-5EUR-X-20250102-t1.pdf",
		},
		{
			name:     "author falls back to label then Unknown",
			original: "doc.pdf",
			tx:       domain.Transaction{Amount: 1, SettledAt: "2025-01-02T00:00:00Z"},
			token:    "t1",
			want:     "doc-1EUR-Unknown-20250102-t1.pdf",
		},
		{
			name:     "components are sanitised",
			original: "my receipt.pdf",
			tx: domain.Transaction{
				Amount:       3,
				Counterparty: "A/B Corp",
				SettledAt:    "2025-01-02T00:00:00Z",
				LabelIDs:     []string{"L1"},
			},
			index: domain.LabelIndex{"L1": "Team Lunch"},
			token: "t1",
			want:  "my_receipt-3EUR-A_B_Corp-20250102-Team_Lunch-t1.pdf",
		},
		{
			name:     "no extension",
			original: "receipt",
			tx:       domain.Transaction{Amount: 2, Counterparty: "X", SettledAt: "2025-01-02T00:00:00Z"},
			token:    "t1",
			want:     "receipt-2EUR-X-20250102-t1",
		},
		{
			name:     "negative integer amount",
			original: "refund.pdf",
			tx:       domain.Transaction{Amount: -42, Counterparty: "X", SettledAt: "2025-01-02T00:00:00Z"},
			token:    "t1",
			want:     "refund--42EUR-X-20250102-t1.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeName(tt.original, tt.tx, tt.index, tt.token))
		})
	}
}

func TestComputeNameLabelOrderPreserved(t *testing.T) {
	index := domain.LabelIndex{"L1": "Alpha", "L2": "Beta"}
	tx := domain.Transaction{
		Amount: 1, Counterparty: "X",
		SettledAt: "2025-01-02T00:00:00Z",
		LabelIDs:  []string{"L2", "L1"},
	}
	got := ComputeName("d.pdf", tx, index, "t")
	assert.Equal(t, "d-1EUR-X-20250102-Beta_Alpha-t.pdf", got)
}
