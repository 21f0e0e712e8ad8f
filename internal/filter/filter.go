package filter

import (
	"github.com/Jelly-Pudding/ereddicator/internal/config"
	"github.com/Jelly-Pudding/ereddicator/internal/domain"
)

// SeenSet is a read-only view of already-processed items.
type SeenSet interface {
	Contains(category domain.Category, id string) bool
}

// ShouldProcess decides keep vs. process for one item. Pure and total:
// the first matching rule wins and a false means the item is left alone
// this run. Ledger hits are permanent skips; every other rule is
// re-evaluated on the next run.
func ShouldProcess(item domain.ContentItem, cfg *config.Config, seen SeenSet) bool {
	if !cfg.Enabled(item.Category) {
		return false
	}
	if seen.Contains(item.Category, item.ID) {
		return false
	}
	if !cfg.InDateRange(item.CreatedAt) {
		return false
	}
	if cfg.Whitelisted(item.Subreddit) {
		return false
	}
	if active, member := cfg.Blacklist(item.Subreddit); active && !member {
		return false
	}
	if cfg.PreserveGilded && item.IsGilded {
		return false
	}
	if cfg.PreserveDistinguished && item.IsDistinguished {
		return false
	}
	// Karma floor is inclusive: an item sitting exactly on the threshold
	// is preserved.
	if threshold, ok := cfg.KarmaThreshold(item.Category); ok && item.Karma >= threshold {
		return false
	}
	// Reddit refuses vote changes on archived content. Platform rule, not
	// a preference.
	if domain.TraitsOf(item.Category).Vote && item.IsArchived {
		return false
	}
	return true
}
