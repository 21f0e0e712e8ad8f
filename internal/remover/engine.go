// Package remover orchestrates one erasure pass: fetch candidates, decide
// with the retention filter, overwrite and/or remove remotely, and record
// progress in the ledger.
package remover

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/Jelly-Pudding/ereddicator/internal/config"
	"github.com/Jelly-Pudding/ereddicator/internal/domain"
	"github.com/Jelly-Pudding/ereddicator/internal/filter"
	"github.com/Jelly-Pudding/ereddicator/internal/journal"
	"github.com/Jelly-Pudding/ereddicator/internal/ledger"
	"github.com/Jelly-Pudding/ereddicator/internal/replace"
)

// Counts is the per-category outcome tally of one run.
type Counts struct {
	Processed int
	Skipped   int
	Failed    int
}

// Summary maps each category to its tally.
type Summary map[domain.Category]Counts

// Total sums processed items across categories.
func (s Summary) Total() int {
	n := 0
	for _, c := range s {
		n += c.Processed
	}
	return n
}

// overwritePasses is how many successive overwrites precede a delete.
// Multiple distinct edits make recovering the original text from cached
// edit-history snapshots harder; there is no stronger guarantee.
const overwritePasses = 3

const defaultMaxAttempts = 5

// Engine runs items through the Pending → Evaluated → {Skipped, Replacing,
// Deleting, Done, Failed} state machine, one item at a time. Remote calls
// are never overlapped; cancellation is honored between items only.
type Engine struct {
	cfg     *config.Config
	source  domain.ItemSource
	mutator domain.Mutator
	ledger  ledger.Ledger
	gen     *replace.Generator
	journal chan<- journal.Record
	logger  *slog.Logger
	runID   string

	maxAttempts int
	sleep       func(ctx context.Context, d time.Duration) error
}

// New wires an engine for one run. journalCh may be nil if no decision
// log is wanted.
func New(cfg *config.Config, source domain.ItemSource, mutator domain.Mutator,
	led ledger.Ledger, gen *replace.Generator, journalCh chan<- journal.Record,
	logger *slog.Logger) *Engine {
	return &Engine{
		cfg:         cfg,
		source:      source,
		mutator:     mutator,
		ledger:      led,
		gen:         gen,
		journal:     journalCh,
		logger:      logger,
		runID:       uuid.NewString(),
		maxAttempts: defaultMaxAttempts,
		sleep:       sleepCtx,
	}
}

// Run executes one full pass over every enabled category. Categories are
// independent: a listing or item failure in one never blocks the next.
// The only error returned is context cancellation.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	summary := make(Summary, len(domain.Categories))
	for _, cat := range domain.Categories {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if !e.cfg.Enabled(cat) {
			continue
		}
		summary[cat] = e.runCategory(ctx, cat)
	}
	return summary, ctx.Err()
}

func (e *Engine) runCategory(ctx context.Context, cat domain.Category) Counts {
	var counts Counts

	items, err := e.source.ListItems(ctx, cat)
	if err != nil {
		e.logger.Error("listing failed", "category", cat, "err", err)
		// A partial listing is still worth processing.
	}
	e.logger.Info("fetched candidates", "category", cat, "count", len(items), "run_id", e.runID)

	for _, item := range items {
		// Stop requests take effect between items, never mid-item.
		if ctx.Err() != nil {
			return counts
		}
		e.processItem(ctx, item, &counts)
	}
	return counts
}

// processItem advances one item through the state machine to a terminal
// state. Failures are confined to the item.
func (e *Engine) processItem(ctx context.Context, item domain.ContentItem, counts *Counts) {
	if !filter.ShouldProcess(item, e.cfg, e.ledger) {
		counts.Skipped++
		e.record(item, "skip", "")
		return
	}

	action := e.actionFor(item.Category)

	if e.cfg.DryRun {
		counts.Processed++
		e.logger.Info("would process", "category", item.Category, "id", item.ID, "action", action)
		e.record(item, action, "")
		return
	}

	if err := e.mutate(ctx, item); err != nil {
		counts.Failed++
		e.logger.Error("processing failed", "category", item.Category, "id", item.ID, "err", err)
		e.record(item, action, "failed: "+err.Error())
		return
	}

	// Mark and flush before reporting done, so a crash in between replays
	// the item instead of dropping it.
	e.ledger.Mark(item.Category, item.ID, domain.Outcome{
		Action: action,
		RunID:  e.runID,
		At:     time.Now().UTC(),
	})
	if err := e.ledger.Flush(); err != nil {
		e.logger.Error("ledger flush failed", "category", item.Category, "id", item.ID, "err", err)
	}

	counts.Processed++
	e.logger.Info("processed", "category", item.Category, "id", item.ID, "action", action)
	e.record(item, action, "")
}

func (e *Engine) actionFor(cat domain.Category) string {
	traits := domain.TraitsOf(cat)
	if traits.Editable {
		return string(e.cfg.ModeFor(cat))
	}
	return traits.RemoveVerb
}

// mutate issues the remote calls for one item: overwrite passes for
// editable modes, then the removal where the mode asks for one.
func (e *Engine) mutate(ctx context.Context, item domain.ContentItem) error {
	edits, removal := 0, true
	if domain.TraitsOf(item.Category).Editable {
		switch e.cfg.ModeFor(item.Category) {
		case config.ModeEdit:
			edits, removal = 1, false
		case config.ModeDelete:
			edits = 0
		case config.ModeEditThenDelete:
			edits = overwritePasses
		}
	}

	for pass := 0; pass < edits; pass++ {
		text := e.gen.Next(e.cfg)
		if err := e.withRetry(ctx, func() error {
			return e.mutator.Edit(ctx, item.Category, item.ID, text)
		}); err != nil {
			return err
		}
		e.logger.Info("overwrote", "category", item.Category, "id", item.ID,
			"pass", pass+1, "was", item.Excerpt())
	}

	if !removal {
		return nil
	}
	return e.withRetry(ctx, func() error {
		return e.mutator.Remove(ctx, item.Category, item.ID)
	})
}

// withRetry runs one remote call with bounded backoff. Rate limits and
// transient faults retry; permanent failures surface immediately.
func (e *Engine) withRetry(ctx context.Context, call func() error) error {
	var err error
	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		err = call()
		if err == nil {
			return nil
		}
		if domain.KindOf(err) == domain.KindPermanent {
			return err
		}
		if attempt == e.maxAttempts-1 {
			break
		}
		wait := time.Duration(1<<attempt)*time.Second +
			time.Duration(rand.Intn(1000))*time.Millisecond
		e.logger.Warn("remote call failed, backing off", "attempt", attempt+1,
			"wait", wait, "kind", domain.KindOf(err).String(), "err", err)
		if sleepErr := e.sleep(ctx, wait); sleepErr != nil {
			return err
		}
	}
	return err
}

func (e *Engine) record(item domain.ContentItem, action, note string) {
	if e.journal == nil {
		return
	}
	e.journal <- journal.Record{
		RunID:    e.runID,
		Category: item.Category,
		ID:       item.ID,
		Action:   action,
		DryRun:   e.cfg.DryRun,
		Note:     note,
		At:       time.Now().UTC(),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
