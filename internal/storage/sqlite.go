package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/logisticlabs/supplywatch/internal/alert"
)

const schema = `
CREATE TABLE IF NOT EXISTS alerts (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	link        TEXT NOT NULL DEFAULT '',
	published   TEXT NOT NULL,
	source      TEXT NOT NULL,
	category    TEXT NOT NULL,
	region      TEXT NOT NULL,
	severity    TEXT NOT NULL,
	raw_data    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_alerts_published ON alerts(published);
CREATE INDEX IF NOT EXISTS idx_alerts_severity ON alerts(severity);
`

// SQLiteStore is the embedded single-file backend.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) the alert database at path.
// WAL and a busy timeout keep concurrent readers working while the
// single writer is active.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if path == ":memory:" {
		// the pool would otherwise hand out independent empty databases
		db.SetMaxOpenConns(1)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) InsertIfAbsent(ctx context.Context, a *alert.Alert) (bool, error) {
	return insertIfAbsent(ctx, s.db, a, func(q string) string { return q })
}

func (s *SQLiteStore) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, s.db, id, func(q string) string { return q })
}

func (s *SQLiteStore) Search(ctx context.Context, f Filter, limit, offset int) ([]alert.Alert, error) {
	return search(ctx, s.db, f, limit, offset, func(q string) string { return q })
}

func (s *SQLiteStore) Count(ctx context.Context, f Filter) (int, error) {
	return count(ctx, s.db, f, func(q string) string { return q })
}

func (s *SQLiteStore) CountAll(ctx context.Context) (int, error) {
	return countAll(ctx, s.db)
}

func (s *SQLiteStore) CountSince(ctx context.Context, d time.Duration) (int, error) {
	return countSince(ctx, s.db, d, func(q string) string { return q })
}

func (s *SQLiteStore) CountBySeverity(ctx context.Context) (map[string]int, error) {
	return countBySeverity(ctx, s.db)
}

func (s *SQLiteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *SQLiteStore) Close() error                   { return s.db.Close() }
func (s *SQLiteStore) Mode() string                   { return "local" }
