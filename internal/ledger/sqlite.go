package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/Jelly-Pudding/ereddicator/internal/domain"
)

// Store is the sqlite-backed Ledger. All keys are held in memory for
// lookups; marks are buffered and written out by Flush in one transaction.
type Store struct {
	db      *sql.DB
	seen    map[key]struct{}
	pending []row
}

type row struct {
	key
	outcome domain.Outcome
}

// Open opens (creating if needed) the ledger database at path and loads
// every processed key into memory.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	s := &Store{db: db, seen: make(map[key]struct{})}
	if err := s.load(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS processed_items (
		category TEXT NOT NULL,
		id TEXT NOT NULL,
		action TEXT NOT NULL,
		run_id TEXT NOT NULL DEFAULT '',
		processed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (category, id)
	);`)
	return err
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT category, id FROM processed_items`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var k key
		if err := rows.Scan(&k.category, &k.id); err != nil {
			return err
		}
		s.seen[k] = struct{}{}
	}
	return rows.Err()
}

// Contains reports whether (category, id) was processed by this or any
// earlier run.
func (s *Store) Contains(category domain.Category, id string) bool {
	_, ok := s.seen[key{category: category, id: id}]
	return ok
}

// Mark records a processed item. Re-marking an existing key is a no-op.
func (s *Store) Mark(category domain.Category, id string, outcome domain.Outcome) {
	k := key{category: category, id: id}
	if _, ok := s.seen[k]; ok {
		return
	}
	s.seen[k] = struct{}{}
	s.pending = append(s.pending, row{key: k, outcome: outcome})
}

// Flush writes all buffered marks in a single transaction. A crash before
// Flush means the items re-run next time, which is safe: processing is
// idempotent on the remote side.
func (s *Store) Flush() error {
	if len(s.pending) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO processed_items(category, id, action, run_id, processed_at)
		VALUES(?,?,?,?,?) ON CONFLICT(category, id) DO NOTHING`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, r := range s.pending {
		if _, err := stmt.Exec(string(r.category), r.id, r.outcome.Action, r.outcome.RunID, r.outcome.At.UTC()); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.pending = s.pending[:0]
	return nil
}

// Len returns the number of processed keys known to the ledger.
func (s *Store) Len() int { return len(s.seen) }

func (s *Store) Close() error {
	if err := s.Flush(); err != nil {
		_ = s.db.Close()
		return err
	}
	return s.db.Close()
}
