package services

import (
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/qontosync/internal/core/domain"
)

// currencySuffix is appended to every formatted amount segment.
const currencySuffix = "EUR"

// dateFallback replaces the date segment when the settlement timestamp is
// missing or unparsable.
const dateFallback = "unknown"

var (
	illegalChars  = regexp.MustCompile(`[<>:"/\\|?*]`)
	separatorRuns = regexp.MustCompile(`[_\s]+`)
)

// Sanitize makes a name component safe for every supported backend:
// characters illegal in file and object names become underscores, runs of
// underscores and whitespace collapse into a single underscore, and
// leading/trailing underscores are trimmed. Sanitize is idempotent.
func Sanitize(name string) string {
	name = illegalChars.ReplaceAllString(name, "_")
	name = separatorRuns.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}

// ComputeName derives the enriched destination name for one attachment:
//
//	<stem>-<amount><EUR>-<author>-<YYYYMMDD>[-<labels>]-<token><ext>
//
// The result is a pure function of its inputs: renaming detection relies
// on recomputing it and comparing against the name on record, so there is
// no randomness and no wall-clock dependence here.
func ComputeName(originalName string, tx domain.Transaction, labels domain.LabelIndex, token string) string {
	ext := filepath.Ext(originalName)
	stem := strings.TrimSuffix(originalName, ext)

	parts := []string{
		Sanitize(stem),
		formatAmount(tx.Amount),
		Sanitize(tx.Author()),
		formatDate(tx),
	}
	if joined := joinLabels(tx.LabelIDs, labels); joined != "" {
		parts = append(parts, joined)
	}
	parts = append(parts, token)

	return Sanitize(strings.Join(parts, "-") + ext)
}

// formatAmount renders exact integers without decimals ("42EUR") and
// everything else with exactly two decimal digits ("42.50EUR").
func formatAmount(amount float64) string {
	if amount == math.Trunc(amount) {
		return strconv.FormatInt(int64(amount), 10) + currencySuffix
	}
	return strconv.FormatFloat(amount, 'f', 2, 64) + currencySuffix
}

// formatDate renders the settlement date in sortable YYYYMMDD form.
func formatDate(tx domain.Transaction) string {
	ts, ok := tx.SettledTime()
	if !ok {
		return dateFallback
	}
	return ts.UTC().Format("20060102")
}

// joinLabels resolves label ids against the index, drops ids the index
// does not know, and joins the sanitised names. An empty result omits the
// label segment entirely.
func joinLabels(ids []string, index domain.LabelIndex) string {
	var names []string
	for _, id := range ids {
		if name, ok := index[id]; ok {
			names = append(names, Sanitize(name))
		}
	}
	return strings.Join(names, "_")
}
