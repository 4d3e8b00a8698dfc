package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/logisticlabs/supplywatch/internal/alert"
)

// rebindFunc converts `?` placeholders into the backend's syntax.
type rebindFunc func(string) string

// rebindDollar numbers placeholders for PostgreSQL.
func rebindDollar(q string) string {
	var sb strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

const insertQuery = `
INSERT INTO alerts (id, title, description, link, published, source, category, region, severity, raw_data)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO NOTHING`

func insertIfAbsent(ctx context.Context, db *sql.DB, a *alert.Alert, rebind rebindFunc) (bool, error) {
	res, err := db.ExecContext(ctx, rebind(insertQuery),
		a.ID, a.Title, a.Description, a.Link, a.Published, a.Source,
		alert.JoinLabels(a.Category), alert.JoinLabels(a.Region), a.Severity, a.RawData)
	if err != nil {
		return false, fmt.Errorf("insert alert %s: %w", a.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert alert %s: %w", a.ID, err)
	}
	return n > 0, nil
}

func exists(ctx context.Context, db *sql.DB, id string, rebind rebindFunc) (bool, error) {
	var found string
	err := db.QueryRowContext(ctx, rebind(`SELECT id FROM alerts WHERE id = ?`), id).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check alert %s: %w", id, err)
	}
	return true, nil
}

func search(ctx context.Context, db *sql.DB, f Filter, limit, offset int, rebind rebindFunc) ([]alert.Alert, error) {
	where, args := filterClause(f, time.Now())
	q := `SELECT id, title, description, link, published, source, category, region, severity, raw_data FROM alerts` +
		where + ` ORDER BY published DESC, id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("search alerts: %w", err)
	}
	defer rows.Close()

	out := make([]alert.Alert, 0, limit)
	for rows.Next() {
		var a alert.Alert
		var category, region string
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Link, &a.Published,
			&a.Source, &category, &region, &a.Severity, &a.RawData); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.Category = alert.SplitLabels(category)
		a.Region = alert.SplitLabels(region)
		out = append(out, a)
	}
	return out, rows.Err()
}

func count(ctx context.Context, db *sql.DB, f Filter, rebind rebindFunc) (int, error) {
	where, args := filterClause(f, time.Now())
	var n int
	err := db.QueryRowContext(ctx, rebind(`SELECT COUNT(*) FROM alerts`+where), args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count alerts: %w", err)
	}
	return n, nil
}

func countAll(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM alerts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count alerts: %w", err)
	}
	return n, nil
}

func countSince(ctx context.Context, db *sql.DB, d time.Duration, rebind rebindFunc) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, rebind(`SELECT COUNT(*) FROM alerts WHERE published >= ?`),
		cutoff(time.Now(), d)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count alerts since %s: %w", d, err)
	}
	return n, nil
}

func countBySeverity(ctx context.Context, db *sql.DB) (map[string]int, error) {
	rows, err := db.QueryContext(ctx, `SELECT severity, COUNT(*) FROM alerts GROUP BY severity`)
	if err != nil {
		return nil, fmt.Errorf("count by severity: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var severity string
		var n int
		if err := rows.Scan(&severity, &n); err != nil {
			return nil, fmt.Errorf("scan severity count: %w", err)
		}
		out[severity] = n
	}
	return out, rows.Err()
}
