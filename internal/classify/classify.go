// Package classify maps free text onto taxonomy labels by
// case-insensitive substring matching.
package classify

import (
	"sort"
	"strings"

	"github.com/logisticlabs/supplywatch/internal/alert"
	"github.com/logisticlabs/supplywatch/internal/taxonomy"
)

// General is the fallback label applied when no keyword matches.
const General = "general"

// Labels returns every label whose keyword list has at least one
// case-insensitive substring match in text. Multiple labels may apply
// at once. The result is sorted and never empty: when nothing matches
// it is the singleton {general}.
func Labels(text string, mapping map[string][]string) []string {
	lower := strings.ToLower(text)
	var matched []string
	for label, keywords := range mapping {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, label)
				break
			}
		}
	}
	if len(matched) == 0 {
		return []string{General}
	}
	sort.Strings(matched)
	return matched
}

// Severity derives the urgency tier from title and description. The
// high-severity check strictly precedes the medium one, so text
// matching both tiers is always high.
func Severity(title, description string, tax *taxonomy.Taxonomy) string {
	text := strings.ToLower(title + " " + description)
	for _, kw := range tax.SeverityHigh {
		if strings.Contains(text, kw) {
			return alert.SeverityHigh
		}
	}
	for _, kw := range tax.SeverityMedium {
		if strings.Contains(text, kw) {
			return alert.SeverityMedium
		}
	}
	return alert.SeverityLow
}
