package journal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Jelly-Pudding/ereddicator/internal/domain"
)

// Record is one decision/action line. A dry run emits the same records as
// a real run, flagged, so the traces are directly comparable.
type Record struct {
	RunID    string          `json:"run_id"`
	Category domain.Category `json:"category"`
	ID       string          `json:"id"`
	Action   string          `json:"action"`
	DryRun   bool            `json:"dry_run,omitempty"`
	Note     string          `json:"note,omitempty"`
	At       time.Time       `json:"at"`
}

// WriterService appends records to an NDJSON file from a single goroutine
// (Monitor Pattern for thread safety).
type WriterService struct {
	FilePath string
}

func (w *WriterService) Start(wg *sync.WaitGroup, input <-chan Record) {
	defer wg.Done()

	if dir := filepath.Dir(w.FilePath); dir != "." {
		os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(w.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	enc := json.NewEncoder(f)

	for rec := range input {
		// Write as NDJSON
		enc.Encode(rec)
	}
}
