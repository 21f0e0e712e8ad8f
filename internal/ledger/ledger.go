// Package ledger is the durable record of already-processed items. The
// remote listings are incomplete and inconsistently paginated, so the
// ledger — not the listing — is the source of truth for "has this id been
// handled".
package ledger

import "github.com/Jelly-Pudding/ereddicator/internal/domain"

// Ledger is the engine's view of cross-run processing state. Mark is
// idempotent; Flush is the durability barrier and must succeed before an
// item is reported done.
type Ledger interface {
	Contains(category domain.Category, id string) bool
	Mark(category domain.Category, id string, outcome domain.Outcome)
	Flush() error
}

type key struct {
	category domain.Category
	id       string
}
