package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/logisticlabs/supplywatch/internal/alert"
)

// PostgresStore is the networked backend, selected when DATABASE_URL
// is set.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to PostgreSQL and ensures the alerts table
// exists.
func OpenPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) InsertIfAbsent(ctx context.Context, a *alert.Alert) (bool, error) {
	return insertIfAbsent(ctx, s.db, a, rebindDollar)
}

func (s *PostgresStore) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, s.db, id, rebindDollar)
}

func (s *PostgresStore) Search(ctx context.Context, f Filter, limit, offset int) ([]alert.Alert, error) {
	return search(ctx, s.db, f, limit, offset, rebindDollar)
}

func (s *PostgresStore) Count(ctx context.Context, f Filter) (int, error) {
	return count(ctx, s.db, f, rebindDollar)
}

func (s *PostgresStore) CountAll(ctx context.Context) (int, error) {
	return countAll(ctx, s.db)
}

func (s *PostgresStore) CountSince(ctx context.Context, d time.Duration) (int, error) {
	return countSince(ctx, s.db, d, rebindDollar)
}

func (s *PostgresStore) CountBySeverity(ctx context.Context) (map[string]int, error) {
	return countBySeverity(ctx, s.db)
}

func (s *PostgresStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
func (s *PostgresStore) Close() error                   { return s.db.Close() }
func (s *PostgresStore) Mode() string                   { return "connected" }
