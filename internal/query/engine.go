// Package query turns structured filter requests into bounded,
// paginated result sets plus summary statistics.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/logisticlabs/supplywatch/internal/alert"
	"github.com/logisticlabs/supplywatch/internal/storage"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Request is a filter plus pagination. All filter fields are optional
// and combine with logical AND.
type Request struct {
	Category  string
	Region    string
	Severity  string
	Search    string
	DateRange string
	StartDate string
	EndDate   string
	Limit     int
	Offset    int
}

// Result is one page of alerts plus the total count of all matching
// rows, computed independently of pagination.
type Result struct {
	Alerts []alert.Alert `json:"alerts"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// Stats summarizes the stored alerts.
type Stats struct {
	TotalAlerts int            `json:"total_alerts"`
	Last7Days   int            `json:"last_7_days"`
	Last24Hours int            `json:"last_24_hours"`
	BySeverity  map[string]int `json:"by_severity"`
}

// Engine executes searches against a Store.
type Engine struct {
	store        storage.Store
	defaultLimit int
	maxLimit     int
	cache        StatsCache
}

func NewEngine(store storage.Store, defaultLimit, maxLimit int, cache StatsCache) *Engine {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if cache == nil {
		cache = NoopCache{}
	}
	return &Engine{store: store, defaultLimit: defaultLimit, maxLimit: maxLimit, cache: cache}
}

// Search returns the page of alerts matching the request, ordered by
// published descending, and the total matching count.
func (e *Engine) Search(ctx context.Context, req Request) (*Result, error) {
	limit, offset := e.clampPage(req.Limit, req.Offset)
	f := storage.Filter{
		Category:  req.Category,
		Region:    req.Region,
		Severity:  req.Severity,
		Search:    req.Search,
		DateRange: req.DateRange,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	alerts, err := e.store.Search(ctx, f, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	total, err := e.store.Count(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	return &Result{Alerts: alerts, Total: total, Limit: limit, Offset: offset}, nil
}

// Stats aggregates totals, recency windows, and the per-severity
// breakdown. Results are served from the cache when one is configured.
func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	if cached, ok := e.cache.Get(ctx); ok {
		return cached, nil
	}

	total, err := e.store.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	last7, err := e.store.CountSince(ctx, 7*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	last24, err := e.store.CountSince(ctx, 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	bySeverity, err := e.store.CountBySeverity(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}

	stats := &Stats{TotalAlerts: total, Last7Days: last7, Last24Hours: last24, BySeverity: bySeverity}
	e.cache.Set(ctx, stats)
	return stats, nil
}

func (e *Engine) clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = e.defaultLimit
	}
	if limit > e.maxLimit {
		limit = e.maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
