package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/logisticlabs/supplywatch/internal/alert"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testAlert(i int, severity string, published time.Time) *alert.Alert {
	title := fmt.Sprintf("alert %03d", i)
	link := fmt.Sprintf("https://example.com/%d", i)
	return &alert.Alert{
		ID:          alert.ID(title, link),
		Title:       title,
		Description: fmt.Sprintf("description for alert %d", i),
		Link:        link,
		Published:   published.UTC().Format(time.RFC3339),
		Source:      "Test Source",
		Category:    []string{"port", "shipping"},
		Region:      []string{"us_west_coast"},
		Severity:    severity,
		RawData:     "{}",
	}
}

func TestInsertIfAbsentDeduplicates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	a := testAlert(1, alert.SeverityLow, time.Now())

	inserted, err := s.InsertIfAbsent(ctx, a)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !inserted {
		t.Fatal("first insert should write a row")
	}

	inserted, err = s.InsertIfAbsent(ctx, a)
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if inserted {
		t.Fatal("second insert must be a no-op")
	}

	n, err := s.CountAll(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly one row, got %d", n)
	}
}

func TestExists(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	a := testAlert(1, alert.SeverityLow, time.Now())

	ok, err := s.Exists(ctx, a.ID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Fatal("id should not exist before insert")
	}
	if _, err := s.InsertIfAbsent(ctx, a); err != nil {
		t.Fatalf("insert: %v", err)
	}
	ok, err = s.Exists(ctx, a.ID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !ok {
		t.Fatal("id should exist after insert")
	}
}

func TestSearchOrderedByPublishedDesc(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now()
	for i := 0; i < 5; i++ {
		a := testAlert(i, alert.SeverityLow, now.Add(-time.Duration(i)*time.Hour))
		if _, err := s.InsertIfAbsent(ctx, a); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := s.Search(ctx, Filter{}, 50, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Published < got[i].Published {
			t.Fatalf("rows not ordered by published desc: %s before %s",
				got[i-1].Published, got[i].Published)
		}
	}
	// labels come back as lists
	if len(got[0].Category) != 2 || got[0].Category[0] != "port" {
		t.Fatalf("category not split: %#v", got[0].Category)
	}
}

func TestSearchFilters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	high := testAlert(1, alert.SeverityHigh, now)
	high.Title = "Terminal shutdown at Long Beach"
	low := testAlert(2, alert.SeverityLow, now)
	low.Category = []string{"rail"}
	low.Region = []string{"us_midwest"}
	for _, a := range []*alert.Alert{high, low} {
		if _, err := s.InsertIfAbsent(ctx, a); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	cases := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"severity exact", Filter{Severity: alert.SeverityHigh}, 1},
		{"category substring", Filter{Category: "ship"}, 1},
		{"region substring", Filter{Region: "midwest"}, 1},
		{"search title", Filter{Search: "SHUTDOWN"}, 1},
		{"search description", Filter{Search: "description for alert"}, 2},
		{"combined", Filter{Severity: alert.SeverityHigh, Category: "port"}, 1},
		{"no match", Filter{Severity: alert.SeverityMedium}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := s.Search(ctx, tc.filter, 50, 0)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(rows) != tc.want {
				t.Fatalf("expected %d rows, got %d", tc.want, len(rows))
			}
			n, err := s.Count(ctx, tc.filter)
			if err != nil {
				t.Fatalf("count: %v", err)
			}
			if n != tc.want {
				t.Fatalf("count %d disagrees with result length %d", n, tc.want)
			}
		})
	}
}

func TestDateRangeFiltersMonotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	ages := []time.Duration{
		2 * time.Hour,       // inside 24h
		3 * 24 * time.Hour,  // inside week
		20 * 24 * time.Hour, // inside month
		60 * 24 * time.Hour, // outside all
	}
	for i, age := range ages {
		if _, err := s.InsertIfAbsent(ctx, testAlert(i, alert.SeverityLow, now.Add(-age))); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	counts := map[string]int{}
	for _, r := range []string{Range24h, RangeWeek, RangeMonth} {
		n, err := s.Count(ctx, Filter{DateRange: r})
		if err != nil {
			t.Fatalf("count %s: %v", r, err)
		}
		counts[r] = n
	}
	if counts[Range24h] != 1 || counts[RangeWeek] != 2 || counts[RangeMonth] != 3 {
		t.Fatalf("unexpected window counts: %v", counts)
	}
	if counts[Range24h] > counts[RangeWeek] || counts[RangeWeek] > counts[RangeMonth] {
		t.Fatalf("date windows not monotonic: %v", counts)
	}

	// unrecognized token means no date filtering
	n, err := s.Count(ctx, Filter{DateRange: "sometime"})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 4 {
		t.Fatalf("unrecognized range should not filter, got %d", n)
	}
}

func TestCustomDateRangeInclusive(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	published := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	if _, err := s.InsertIfAbsent(ctx, testAlert(1, alert.SeverityLow, published)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	boundary := published.Format(time.RFC3339)
	n, err := s.Count(ctx, Filter{DateRange: RangeCustom, StartDate: boundary, EndDate: boundary})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("custom range must be inclusive at both bounds, got %d", n)
	}

	// missing bounds disable the filter rather than producing bad SQL
	n, err = s.Count(ctx, Filter{DateRange: RangeCustom, StartDate: boundary})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("incomplete custom range should not filter, got %d", n)
	}
}

func TestPaginationWindowsCoverAll(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now()
	const total = 23

	for i := 0; i < total; i++ {
		if _, err := s.InsertIfAbsent(ctx, testAlert(i, alert.SeverityLow, now.Add(-time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	full, err := s.Search(ctx, Filter{}, total+1, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	var paged []string
	for offset := 0; offset < total; offset += 5 {
		page, err := s.Search(ctx, Filter{}, 5, offset)
		if err != nil {
			t.Fatalf("search page at %d: %v", offset, err)
		}
		for _, a := range page {
			paged = append(paged, a.ID)
		}
	}

	if len(paged) != len(full) {
		t.Fatalf("pages cover %d rows, full scan has %d", len(paged), len(full))
	}
	seen := map[string]bool{}
	for i, id := range paged {
		if full[i].ID != id {
			t.Fatalf("page order diverges from full scan at %d", i)
		}
		if seen[id] {
			t.Fatalf("duplicate id across pages: %s", id)
		}
		seen[id] = true
	}
}

func TestCountSinceAndBySeverity(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	for i, severity := range []string{alert.SeverityHigh, alert.SeverityHigh, alert.SeverityLow} {
		if _, err := s.InsertIfAbsent(ctx, testAlert(i, severity, now)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if _, err := s.InsertIfAbsent(ctx, testAlert(10, alert.SeverityMedium, now.Add(-48*time.Hour))); err != nil {
		t.Fatalf("insert: %v", err)
	}

	n, err := s.CountSince(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("count since: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 alerts in the last day, got %d", n)
	}

	bySeverity, err := s.CountBySeverity(ctx)
	if err != nil {
		t.Fatalf("count by severity: %v", err)
	}
	if bySeverity[alert.SeverityHigh] != 2 || bySeverity[alert.SeverityLow] != 1 || bySeverity[alert.SeverityMedium] != 1 {
		t.Fatalf("unexpected severity counts: %v", bySeverity)
	}
}

func TestMode(t *testing.T) {
	s := openTestStore(t)
	if s.Mode() != "local" {
		t.Fatalf("sqlite store must report local mode, got %s", s.Mode())
	}
}
