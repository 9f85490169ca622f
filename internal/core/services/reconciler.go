package services

import (
	"strings"

	"github.com/custodia-labs/qontosync/internal/core/domain"
)

// Policy exempts configured document classes from the default reconcile
// rules. A class is any document whose original filename contains one of
// the configured patterns. The zero value disables both exemptions.
type Policy struct {
	// RefreshNamePatterns marks documents the source regenerates in
	// place (e.g. its own invoices): for those, a change of the original
	// filename alone also triggers a fresh transfer, even though the
	// fingerprint still matches.
	RefreshNamePatterns []string

	// RenameExemptMarker suppresses renames of pattern-matched documents
	// when the newly computed name contains this marker. Empty disables
	// the exemption.
	RenameExemptMarker string
}

func (p Policy) matches(originalName string) bool {
	for _, pattern := range p.RefreshNamePatterns {
		if pattern != "" && strings.Contains(originalName, pattern) {
			return true
		}
	}
	return false
}

// refreshOnNameChurn reports whether a mere original-name change must be
// treated as a content change for this document.
func (p Policy) refreshOnNameChurn(doc domain.Document, prior *domain.StateRecord) bool {
	return p.matches(doc.OriginalName) && prior.OriginalName != doc.OriginalName
}

// suppressRename reports whether a pattern-matched document must keep its
// current destination name even though the computed name moved on.
func (p Policy) suppressRename(doc domain.Document, computedName string) bool {
	return p.RenameExemptMarker != "" &&
		p.matches(doc.OriginalName) &&
		strings.Contains(computedName, p.RenameExemptMarker)
}

// Reconciler decides, per document, whether its bytes must be fetched,
// its destination object renamed, or nothing done. Decisions are pure:
// they read the document, its prior record and the precomputed
// destination name, and never touch a backend.
type Reconciler struct {
	policy Policy
}

// NewReconciler creates a reconciler with the given exemption policy.
func NewReconciler(policy Policy) *Reconciler {
	return &Reconciler{policy: policy}
}

// Decide maps a document and its prior record to one action:
//
//  1. No prior record: fetch.
//  2. Fingerprint changed (or name churn on a refresh-exempted class):
//     fetch, overwriting whatever object exists under the previous name.
//  3. Fingerprint unchanged but the computed name moved away from the
//     name on record: rename, unless the policy suppresses it.
//  4. Otherwise: skip.
func (r *Reconciler) Decide(doc domain.Document, prior *domain.StateRecord, computedName string) domain.Action {
	if prior == nil {
		return domain.Action{Kind: domain.ActionFetch}
	}

	if !doc.Fingerprint().Equal(prior.Fingerprint()) {
		return domain.Action{Kind: domain.ActionFetch}
	}
	if r.policy.refreshOnNameChurn(doc, prior) {
		return domain.Action{Kind: domain.ActionFetch}
	}

	if computedName != prior.DestinationName && prior.DestinationName != "" {
		if r.policy.suppressRename(doc, computedName) {
			return domain.Action{Kind: domain.ActionSkip}
		}
		return domain.Action{Kind: domain.ActionRename, OldName: prior.DestinationName}
	}

	return domain.Action{Kind: domain.ActionSkip}
}
