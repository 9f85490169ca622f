package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/custodia-labs/qontosync/internal/core/domain"
	"github.com/custodia-labs/qontosync/internal/core/ports/driven"
	"github.com/custodia-labs/qontosync/internal/core/ports/driving"
	"github.com/custodia-labs/qontosync/internal/logger"
	"github.com/custodia-labs/qontosync/internal/period"
)

// Ensure Orchestrator implements the interface.
var _ driving.Syncer = (*Orchestrator)(nil)

const (
	// defaultWorkers bounds concurrent transfers against the backend.
	defaultWorkers = 4

	// transferAttempts is the retry budget for one transient failure class.
	transferAttempts = 3

	retryBase = 250 * time.Millisecond
)

// OrchestratorConfig carries the run policies that are configuration, not
// wiring.
type OrchestratorConfig struct {
	// Workers caps concurrent backend transfers. Zero means the default.
	Workers int

	// PruneMissing drops state records for documents the run never saw.
	// Only meaningful when the window covers the whole synced history.
	PruneMissing bool
}

// Orchestrator drives one reconciliation pass: list, decide, transfer,
// persist, notify. Sync state is persisted once at the end of the run; a
// crash mid-run therefore redoes transfers, which the backend's upsert
// Write keeps harmless.
type Orchestrator struct {
	source     driven.Source
	backend    driven.Backend
	states     driven.StateStore
	notifier   driven.Notifier
	reconciler *Reconciler
	cfg        OrchestratorConfig

	// mu guards state, summary and containers while workers run.
	mu         sync.Mutex
	containers map[string]string
}

// NewOrchestrator wires a run. notifier may be nil.
func NewOrchestrator(
	source driven.Source,
	backend driven.Backend,
	states driven.StateStore,
	notifier driven.Notifier,
	reconciler *Reconciler,
	cfg OrchestratorConfig,
) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	return &Orchestrator{
		source:     source,
		backend:    backend,
		states:     states,
		notifier:   notifier,
		reconciler: reconciler,
		cfg:        cfg,
		containers: make(map[string]string),
	}
}

// job is one decided unit of work.
type job struct {
	tx     domain.Transaction
	doc    domain.Document
	name   string
	action domain.Action
}

// Run executes one sync pass over the window.
func (o *Orchestrator) Run(ctx context.Context, window period.Window) (*domain.Summary, error) {
	summary := &domain.Summary{
		RunID:       uuid.NewString(),
		PeriodLabel: window.Label,
		GroupLinks:  make(map[string]string),
	}

	labels, err := o.source.ListLabels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	logger.Info("Labels loaded: %d", len(labels))

	state := o.states.Load(ctx)

	txs, err := o.source.ListTransactions(ctx, window.From, window.To)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	logger.Info("Transactions with attachments: %d", len(txs))

	// Decide everything up front. Decisions are pure and the state map
	// stays read-only until workers start executing.
	var jobs []job
	seen := make(map[string]struct{})
	for _, tx := range txs {
		docs, err := o.source.ListAttachments(ctx, tx.ID)
		if err != nil {
			logger.Warn("Listing attachments of %s failed: %v", tx.ID, err)
			summary.Errors++
			continue
		}
		for _, doc := range docs {
			if doc.ContentURL == "" {
				continue
			}
			seen[doc.ID] = struct{}{}
			name := ComputeName(doc.OriginalName, tx, labels, uniquenessToken(doc, tx))
			action := o.reconciler.Decide(doc, state.Lookup(doc.ID), name)
			jobs = append(jobs, job{tx: tx, doc: doc, name: name, action: action})
		}
	}

	o.execute(ctx, jobs, state, summary)

	if o.cfg.PruneMissing {
		for id := range state {
			if _, ok := seen[id]; !ok {
				logger.Debug("Pruning state record %s", id)
				delete(state, id)
			}
		}
	}

	if err := o.states.Save(ctx, state); err != nil {
		// Partial progress from the transfer phase survives in the
		// destination; losing the state write costs re-fetches, not data.
		logger.Warn("Saving sync state failed: %v", err)
	}

	if o.notifier != nil && summary.Changed() {
		if err := o.notifier.Notify(ctx, summary); err != nil {
			logger.Warn("Notification delivery failed: %v", err)
		}
	}

	logger.Info("Run %s: %d fetched, %d renamed, %d skipped, %d errors",
		summary.RunID, summary.Fetched, summary.Renamed, summary.Skipped, summary.Errors)
	return summary, nil
}

// execute runs the decided jobs on a bounded worker pool. A failed
// document is demoted to an error count; it never aborts the run.
func (o *Orchestrator) execute(ctx context.Context, jobs []job, state domain.SyncState, summary *domain.Summary) {
	sem := make(chan struct{}, o.cfg.Workers)
	var wg sync.WaitGroup

	for _, j := range jobs {
		if j.action.Kind == domain.ActionSkip {
			logger.Debug("Skipping %s", j.name)
			summary.Skipped++
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(j job) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := o.apply(ctx, j, state, summary); err != nil {
				logger.Warn("%s %s failed: %v", j.action.Kind, j.doc.OriginalName, err)
				o.mu.Lock()
				summary.Errors++
				o.mu.Unlock()
			}
		}(j)
	}

	wg.Wait()
}

func (o *Orchestrator) apply(ctx context.Context, j job, state domain.SyncState, summary *domain.Summary) error {
	switch j.action.Kind {
	case domain.ActionFetch:
		return o.fetch(ctx, j, state, summary)

	case domain.ActionRename:
		err := o.rename(ctx, j, state, summary)
		if domain.IsNotFound(err) {
			// The object on record vanished from the destination.
			// Recreate it under the new name.
			logger.Warn("Rename target %q missing, re-fetching", j.action.OldName)
			return o.fetch(ctx, j, state, summary)
		}
		return err
	}
	return nil
}

func (o *Orchestrator) fetch(ctx context.Context, j job, state domain.SyncState, summary *domain.Summary) error {
	logger.Info("Downloading %q as %q", j.doc.OriginalName, j.name)

	var data []byte
	err := o.retryTransient(ctx, func(ctx context.Context) error {
		var err error
		data, err = o.source.FetchBytes(ctx, j.doc.ContentURL)
		return err
	})
	if err != nil {
		return fmt.Errorf("fetch bytes: %w", err)
	}

	parent, err := o.container(ctx, j.tx.MonthGroup())
	if err != nil {
		return err
	}

	if err := o.retryTransient(ctx, func(ctx context.Context) error {
		return o.backend.Write(ctx, j.name, parent, data)
	}); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	state[j.doc.ID] = domain.NewStateRecord(j.doc, j.name)
	summary.Fetched++
	summary.NewItems = append(summary.NewItems, newItem(j))
	o.recordLinkLocked(summary, j.tx.MonthGroup(), parent)
	return nil
}

func (o *Orchestrator) rename(ctx context.Context, j job, state domain.SyncState, summary *domain.Summary) error {
	parent, err := o.container(ctx, j.tx.MonthGroup())
	if err != nil {
		return err
	}

	err = o.retryTransient(ctx, func(ctx context.Context) error {
		return o.backend.Rename(ctx, j.action.OldName, j.name, parent)
	})
	if err != nil {
		return fmt.Errorf("rename %q to %q: %w", j.action.OldName, j.name, err)
	}
	logger.Info("Renamed %q to %q", j.action.OldName, j.name)

	o.mu.Lock()
	defer o.mu.Unlock()
	state[j.doc.ID] = domain.NewStateRecord(j.doc, j.name)
	summary.Renamed++
	o.recordLinkLocked(summary, j.tx.MonthGroup(), parent)
	return nil
}

// container resolves the month container, creating it once per run.
func (o *Orchestrator) container(ctx context.Context, group string) (string, error) {
	o.mu.Lock()
	if id, ok := o.containers[group]; ok {
		o.mu.Unlock()
		return id, nil
	}
	o.mu.Unlock()

	// EnsureContainer is idempotent, so a racing duplicate call is
	// harmless; both writers cache the same identity.
	id, err := o.backend.EnsureContainer(ctx, group, o.backend.Root())
	if err != nil {
		return "", fmt.Errorf("ensure container %s: %w", group, err)
	}

	o.mu.Lock()
	o.containers[group] = id
	o.mu.Unlock()
	return id, nil
}

func (o *Orchestrator) recordLinkLocked(summary *domain.Summary, group, parent string) {
	if link := o.backend.ContainerLink(parent); link != "" {
		summary.GroupLinks[group] = link
	}
}

// retryTransient retries an operation with exponential backoff, but only
// for failures the adapters classified as transient.
func (o *Orchestrator) retryTransient(ctx context.Context, op func(context.Context) error) error {
	backoff := retry.WithMaxRetries(transferAttempts, retry.NewExponential(retryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := op(ctx)
		if domain.IsTransient(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func newItem(j job) domain.NewItem {
	var date string
	if ts, ok := j.tx.SettledTime(); ok {
		date = ts.UTC().Format("2006-01-02")
	}
	return domain.NewItem{
		Name:   j.name,
		Amount: j.tx.Amount,
		Author: j.tx.Author(),
		Date:   date,
		Group:  j.tx.MonthGroup(),
	}
}

// uniquenessToken picks the collision-resistant tail of an enriched name:
// the attachment id when present, else a transaction id prefix.
func uniquenessToken(doc domain.Document, tx domain.Transaction) string {
	if doc.ID != "" {
		return doc.ID
	}
	if len(tx.ID) >= 8 {
		return tx.ID[:8]
	}
	if tx.ID != "" {
		return tx.ID
	}
	return "unknown"
}
