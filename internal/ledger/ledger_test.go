package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jelly-Pudding/ereddicator/internal/domain"
)

func outcome(action string) domain.Outcome {
	return domain.Outcome{Action: action, RunID: "run-1", At: time.Now().UTC()}
}

func TestStore_MarkAndContains(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.False(t, s.Contains(domain.CategoryComment, "t1_a"))
	s.Mark(domain.CategoryComment, "t1_a", outcome("delete"))
	assert.True(t, s.Contains(domain.CategoryComment, "t1_a"))

	// Same id under another category is a different key.
	assert.False(t, s.Contains(domain.CategoryPost, "t1_a"))
}

func TestStore_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	s, err := Open(path)
	require.NoError(t, err)
	s.Mark(domain.CategoryComment, "t1_a", outcome("edit-then-delete"))
	s.Mark(domain.CategorySaved, "t3_b", outcome("unsave"))
	require.NoError(t, s.Flush())
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.True(t, reopened.Contains(domain.CategoryComment, "t1_a"))
	assert.True(t, reopened.Contains(domain.CategorySaved, "t3_b"))
	assert.False(t, reopened.Contains(domain.CategoryComment, "t1_c"))
	assert.Equal(t, 2, reopened.Len())
}

func TestStore_UnflushedMarksAreNotDurable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	s, err := Open(path)
	require.NoError(t, err)
	s.Mark(domain.CategoryComment, "t1_a", outcome("delete"))
	// No Flush; close the handle directly to simulate a crash.
	require.NoError(t, s.db.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.False(t, reopened.Contains(domain.CategoryComment, "t1_a"),
		"a crash between mutation and flush must replay, not drop")
}

func TestStore_RemarkIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	s.Mark(domain.CategoryComment, "t1_a", outcome("delete"))
	require.NoError(t, s.Flush())
	s.Mark(domain.CategoryComment, "t1_a", outcome("edit"))
	require.NoError(t, s.Flush())

	assert.Equal(t, 1, s.Len())
}

func TestStore_FlushWithNothingPending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Flush())
}

func TestMemory(t *testing.T) {
	m := NewMemory()

	assert.False(t, m.Contains(domain.CategoryHidden, "t3_a"))
	m.Mark(domain.CategoryHidden, "t3_a", outcome("unhide"))
	assert.True(t, m.Contains(domain.CategoryHidden, "t3_a"))
	require.NoError(t, m.Flush())

	// First outcome wins on re-mark.
	m.Mark(domain.CategoryHidden, "t3_a", outcome("other"))
	o, ok := m.Outcome(domain.CategoryHidden, "t3_a")
	require.True(t, ok)
	assert.Equal(t, "unhide", o.Action)
	assert.Equal(t, 1, m.Len())
}
