// Package storage persists alerts to a relational table keyed by the
// content-hash id. Two backends implement the same contract: an
// embedded SQLite file and a networked PostgreSQL database, selected at
// startup by configuration. Core logic only ever sees the Store
// interface.
package storage

import (
	"context"
	"time"

	"github.com/logisticlabs/supplywatch/internal/alert"
)

// Date range tokens accepted by Filter.DateRange. Anything else means
// no date filtering.
const (
	RangeAllTime = "all_time"
	Range24h     = "last_24h"
	RangeWeek    = "last_week"
	RangeMonth   = "last_month"
	RangeCustom  = "custom"
)

// DateRanges lists the supported date-range tokens.
func DateRanges() []string {
	return []string{RangeAllTime, Range24h, RangeWeek, RangeMonth, RangeCustom}
}

// Filter narrows a query over alerts. All fields are optional and
// combine with logical AND. Category and region match as substrings of
// the stored comma-joined label string; severity matches exactly;
// Search matches title or description case-insensitively.
type Filter struct {
	Category  string
	Region    string
	Severity  string
	Search    string
	DateRange string
	StartDate string
	EndDate   string
}

// Store is the durable alert table contract.
type Store interface {
	// InsertIfAbsent inserts the alert unless its id already exists.
	// It reports whether a row was actually written.
	InsertIfAbsent(ctx context.Context, a *alert.Alert) (bool, error)
	// Exists reports whether an alert with the given id is stored.
	Exists(ctx context.Context, id string) (bool, error)
	// Search returns one page of matching alerts ordered by published
	// descending (id breaks ties so pagination windows are stable).
	Search(ctx context.Context, f Filter, limit, offset int) ([]alert.Alert, error)
	// Count returns the total number of alerts matching the filter,
	// independent of pagination.
	Count(ctx context.Context, f Filter) (int, error)
	CountAll(ctx context.Context) (int, error)
	CountSince(ctx context.Context, d time.Duration) (int, error)
	CountBySeverity(ctx context.Context) (map[string]int, error)
	Ping(ctx context.Context) error
	Close() error
	// Mode reports the backing store kind for health reporting:
	// "local" for SQLite, "connected" for PostgreSQL.
	Mode() string
}
