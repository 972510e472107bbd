package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the fetch log to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so the CLI can read the log while the server writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS fetch_log (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			request_key TEXT NOT NULL,
			source      TEXT,
			outcome     TEXT NOT NULL,
			duration_ms INTEGER,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_ts ON fetch_log(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_key ON fetch_log(request_key)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordFetch(evt *FetchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	at := evt.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO fetch_log
		(timestamp, request_key, source, outcome, duration_ms, error)
		VALUES (?,?,?,?,?,?)`,
		at.UnixMilli(), evt.Key, evt.Source, string(evt.Outcome),
		evt.Duration.Milliseconds(), evt.Error,
	)
	return err
}

// RecentFetches returns up to limit events, newest first.
func (r *SQLiteRecorder) RecentFetches(limit int) ([]FetchEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT timestamp, request_key, source, outcome, duration_ms, error
		FROM fetch_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query fetch_log: %w", err)
	}
	defer rows.Close()

	var out []FetchEvent
	for rows.Next() {
		var (
			ts, ms          int64
			key, outcome    string
			source, errText sql.NullString
		)
		if err := rows.Scan(&ts, &key, &source, &outcome, &ms, &errText); err != nil {
			return nil, fmt.Errorf("scan fetch_log: %w", err)
		}
		out = append(out, FetchEvent{
			At:       time.UnixMilli(ts),
			Key:      key,
			Source:   source.String,
			Outcome:  Outcome(outcome),
			Duration: time.Duration(ms) * time.Millisecond,
			Error:    errText.String,
		})
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
