package alert

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Severity tiers derived at ingestion time from keyword presence.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Severities returns the valid severity values in ascending order.
func Severities() []string {
	return []string{SeverityLow, SeverityMedium, SeverityHigh}
}

// Alert is one ingested, classified feed entry. Rows are immutable once
// inserted: the pipeline only ever creates new alerts, never updates.
type Alert struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Link        string   `json:"link"`
	Published   string   `json:"published"`
	Source      string   `json:"source"`
	Category    []string `json:"category"`
	Region      []string `json:"region"`
	Severity    string   `json:"severity"`
	RawData     string   `json:"-"`
}

// ID derives the stable alert identity from title and link. The same
// (title, link) pair always hashes to the same id, which is what makes
// deduplication across ingestion runs work.
func ID(title, link string) string {
	sum := md5.Sum([]byte(title + link))
	return hex.EncodeToString(sum[:])
}

// JoinLabels renders a label set into its comma-joined storage form.
func JoinLabels(labels []string) string {
	return strings.Join(labels, ",")
}

// SplitLabels parses the comma-joined storage form back into a list.
func SplitLabels(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
