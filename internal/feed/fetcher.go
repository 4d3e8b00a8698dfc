package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

const (
	// DefaultTitle is substituted when a source omits the entry title.
	DefaultTitle = "No title"

	maxDescriptionLen = 500
)

// Entry is one normalized feed item ready for classification.
type Entry struct {
	Title       string
	Description string
	Link        string
	Published   string
	Raw         string
}

// Fetcher retrieves and normalizes entries from one source at a time.
type Fetcher struct {
	parser     *gofeed.Parser
	strip      *bluemonday.Policy
	timeout    time.Duration
	maxEntries int
}

// NewFetcher builds a fetcher with a per-source timeout and a cap on
// entries taken per source.
func NewFetcher(timeout time.Duration, maxEntries int) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 20
	}
	return &Fetcher{
		parser:     gofeed.NewParser(),
		strip:      bluemonday.StrictPolicy(),
		timeout:    timeout,
		maxEntries: maxEntries,
	}
}

// Fetch retrieves one source and returns its normalized entries. The
// timeout bounds the whole fetch+parse so one unresponsive source
// cannot stall the cycle.
func (f *Fetcher) Fetch(ctx context.Context, src Source) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	parsed, err := f.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src.Name, err)
	}

	items := parsed.Items
	if len(items) > f.maxEntries {
		items = items[:f.maxEntries]
	}

	now := time.Now().UTC()
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, f.normalize(item, now))
	}
	return entries, nil
}

func (f *Fetcher) normalize(item *gofeed.Item, now time.Time) Entry {
	title := item.Title
	if title == "" {
		title = DefaultTitle
	}

	desc := item.Description
	if desc == "" {
		desc = item.Content
	}
	desc = truncate(f.stripHTML(desc), maxDescriptionLen)

	raw, err := json.Marshal(item)
	if err != nil {
		raw = []byte("{}")
	}

	return Entry{
		Title:       title,
		Description: desc,
		Link:        item.Link,
		Published:   publishedAt(item, now),
		Raw:         string(raw),
	}
}

// publishedAt picks the best available publish timestamp: parsed
// publish time, parsed update time, the raw published/updated strings,
// then ingestion-time now.
func publishedAt(item *gofeed.Item, now time.Time) string {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC().Format(time.RFC3339)
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.UTC().Format(time.RFC3339)
	}
	if item.Published != "" {
		return item.Published
	}
	if item.Updated != "" {
		return item.Updated
	}
	return now.Format(time.RFC3339)
}

func (f *Fetcher) stripHTML(s string) string {
	s = html.UnescapeString(f.strip.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
