package ledger

import "github.com/Jelly-Pudding/ereddicator/internal/domain"

// Memory is an in-process Ledger with no durability. Used by tests and as
// the throwaway ledger view of a dry run.
type Memory struct {
	seen map[key]domain.Outcome
}

func NewMemory() *Memory {
	return &Memory{seen: make(map[key]domain.Outcome)}
}

func (m *Memory) Contains(category domain.Category, id string) bool {
	_, ok := m.seen[key{category: category, id: id}]
	return ok
}

func (m *Memory) Mark(category domain.Category, id string, outcome domain.Outcome) {
	k := key{category: category, id: id}
	if _, ok := m.seen[k]; ok {
		return
	}
	m.seen[k] = outcome
}

func (m *Memory) Flush() error { return nil }

func (m *Memory) Len() int { return len(m.seen) }

// Outcome returns the recorded outcome for a key, for test inspection.
func (m *Memory) Outcome(category domain.Category, id string) (domain.Outcome, bool) {
	o, ok := m.seen[key{category: category, id: id}]
	return o, ok
}
