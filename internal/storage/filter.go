package storage

import (
	"strings"
	"time"
)

// filterClause renders a Filter into a WHERE fragment with `?`
// placeholders plus its arguments. now anchors the relative date
// ranges. Both backends share this; the Postgres store rebinds the
// placeholders afterwards.
func filterClause(f Filter, now time.Time) (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(" WHERE 1=1")

	if f.Category != "" {
		sb.WriteString(" AND category LIKE ?")
		args = append(args, "%"+f.Category+"%")
	}
	if f.Region != "" {
		sb.WriteString(" AND region LIKE ?")
		args = append(args, "%"+f.Region+"%")
	}
	if f.Severity != "" {
		sb.WriteString(" AND severity = ?")
		args = append(args, f.Severity)
	}
	if f.Search != "" {
		sb.WriteString(" AND (lower(title) LIKE ? OR lower(description) LIKE ?)")
		needle := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, needle, needle)
	}

	switch f.DateRange {
	case Range24h:
		sb.WriteString(" AND published >= ?")
		args = append(args, cutoff(now, 24*time.Hour))
	case RangeWeek:
		sb.WriteString(" AND published >= ?")
		args = append(args, cutoff(now, 7*24*time.Hour))
	case RangeMonth:
		sb.WriteString(" AND published >= ?")
		args = append(args, cutoff(now, 30*24*time.Hour))
	case RangeCustom:
		if f.StartDate != "" && f.EndDate != "" {
			// inclusive on both ends
			sb.WriteString(" AND published >= ? AND published <= ?")
			args = append(args, f.StartDate, f.EndDate)
		}
	}

	return sb.String(), args
}

func cutoff(now time.Time, d time.Duration) string {
	return now.Add(-d).UTC().Format(time.RFC3339)
}
