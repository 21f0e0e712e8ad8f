package journal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jelly-Pudding/ereddicator/internal/domain"
)

func TestWriterService_AppendsNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.json")

	write := func(recs ...Record) {
		w := &WriterService{FilePath: path}
		ch := make(chan Record, len(recs))
		var wg sync.WaitGroup
		wg.Add(1)
		go w.Start(&wg, ch)
		for _, r := range recs {
			ch <- r
		}
		close(ch)
		wg.Wait()
	}

	now := time.Now().UTC().Truncate(time.Second)
	write(
		Record{RunID: "r1", Category: domain.CategoryComment, ID: "t1_a", Action: "edit-then-delete", At: now},
		Record{RunID: "r1", Category: domain.CategorySaved, ID: "t3_b", Action: "skip", At: now},
	)
	// A second run appends rather than truncating.
	write(Record{RunID: "r2", Category: domain.CategoryHidden, ID: "t3_c", Action: "unhide", DryRun: true, At: now})

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var got []Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		got = append(got, rec)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, got, 3)
	assert.Equal(t, "t1_a", got[0].ID)
	assert.Equal(t, "skip", got[1].Action)
	assert.Equal(t, "r2", got[2].RunID)
	assert.True(t, got[2].DryRun)
}
