// Package history logs completed conversations to a SQLite database for
// later review. Logging is best effort and never blocks a response.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ziadkadry99/docchat/internal/chat"
)

// Store persists conversation log entries.
type Store struct {
	db *sql.DB
}

// Entry is one logged exchange.
type Entry struct {
	ID        string
	Approach  string
	History   []chat.Turn
	Answer    string
	CreatedAt time.Time
}

// Open creates or opens the log database at the given path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// OpenMemory creates an in-memory log database (useful for testing).
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS chat_log (
    id TEXT PRIMARY KEY,
    timestamp DATETIME NOT NULL DEFAULT (datetime('now')),
    approach TEXT NOT NULL,
    history TEXT NOT NULL,
    answer TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_chat_log_timestamp ON chat_log(timestamp);
`

// Append records one completed exchange.
func (s *Store) Append(ctx context.Context, approach string, history []chat.Turn, answer string) error {
	payload, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO chat_log (id, approach, history, answer) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), approach, string(payload), answer,
	)
	if err != nil {
		return fmt.Errorf("inserting log entry: %w", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, approach, history, answer FROM chat_log ORDER BY timestamp DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var historyJSON string
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.Approach, &historyJSON, &e.Answer); err != nil {
			return nil, fmt.Errorf("scanning log entry: %w", err)
		}
		if err := json.Unmarshal([]byte(historyJSON), &e.History); err != nil {
			return nil, fmt.Errorf("decoding history for %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
