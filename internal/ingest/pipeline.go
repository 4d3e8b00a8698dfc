// Package ingest runs the fetch → dedupe → classify → persist pipeline
// over the configured feed sources.
package ingest

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/logisticlabs/supplywatch/internal/alert"
	"github.com/logisticlabs/supplywatch/internal/classify"
	"github.com/logisticlabs/supplywatch/internal/feed"
	"github.com/logisticlabs/supplywatch/internal/metrics"
	"github.com/logisticlabs/supplywatch/internal/storage"
	"github.com/logisticlabs/supplywatch/internal/taxonomy"
)

// Fetcher retrieves normalized entries for one source.
type Fetcher interface {
	Fetch(ctx context.Context, src feed.Source) ([]feed.Entry, error)
}

// SourceResult records what one source contributed to a run. Err is set
// when the fetch failed; the run carries on with the other sources.
type SourceResult struct {
	Source   string
	Fetched  int
	Inserted int
	Skipped  int
	Err      error

	storeErr error
}

// Pipeline orchestrates one ingestion run end to end.
type Pipeline struct {
	store    storage.Store
	fetcher  Fetcher
	sources  []feed.Source
	taxonomy *taxonomy.Taxonomy
}

func NewPipeline(store storage.Store, fetcher Fetcher, sources []feed.Source, tax *taxonomy.Taxonomy) *Pipeline {
	return &Pipeline{store: store, fetcher: fetcher, sources: sources, taxonomy: tax}
}

// Run processes every configured source sequentially and returns the
// number of newly inserted alerts. A failing source contributes zero
// entries without aborting the run; a store error is fatal to the run
// and returned alongside the count inserted so far. Re-running against
// unchanged feed content inserts nothing.
func (p *Pipeline) Run(ctx context.Context) (int, []SourceResult, error) {
	started := time.Now()
	defer func() { metrics.RunDuration.Observe(time.Since(started).Seconds()) }()

	total := 0
	results := make([]SourceResult, 0, len(p.sources))
	for _, src := range p.sources {
		res := p.runSource(ctx, src)
		total += res.Inserted
		results = append(results, res)
		if res.Err != nil && ctx.Err() != nil {
			return total, results, ctx.Err()
		}
		if res.storeErr != nil {
			return total, results, res.storeErr
		}
	}
	log.Info().Int("new_alerts", total).Msg("ingestion run complete")
	return total, results, nil
}

func (p *Pipeline) runSource(ctx context.Context, src feed.Source) SourceResult {
	res := SourceResult{Source: src.Name}

	log.Debug().Str("source", src.Name).Msg("fetching feed")
	entries, err := p.fetcher.Fetch(ctx, src)
	if err != nil {
		metrics.FetchErrors.WithLabelValues(src.Name).Inc()
		log.Error().Err(err).Str("source", src.Name).Msg("feed fetch failed")
		res.Err = err
		return res
	}
	res.Fetched = len(entries)

	for _, entry := range entries {
		id := alert.ID(entry.Title, entry.Link)
		seen, err := p.store.Exists(ctx, id)
		if err != nil {
			res.storeErr = err
			return res
		}
		if seen {
			res.Skipped++
			continue
		}

		a := p.build(id, src, entry)
		inserted, err := p.store.InsertIfAbsent(ctx, a)
		if err != nil {
			res.storeErr = err
			return res
		}
		if !inserted {
			res.Skipped++
			continue
		}
		res.Inserted++
		metrics.AlertsIngested.WithLabelValues(src.Name).Inc()
	}

	log.Info().Str("source", src.Name).
		Int("fetched", res.Fetched).Int("inserted", res.Inserted).Int("skipped", res.Skipped).
		Msg("source processed")
	return res
}

func (p *Pipeline) build(id string, src feed.Source, entry feed.Entry) *alert.Alert {
	fullText := entry.Title + " " + entry.Description
	return &alert.Alert{
		ID:          id,
		Title:       entry.Title,
		Description: entry.Description,
		Link:        entry.Link,
		Published:   entry.Published,
		Source:      src.Name,
		Category:    classify.Labels(fullText, p.taxonomy.Categories),
		Region:      classify.Labels(fullText, p.taxonomy.Regions),
		Severity:    classify.Severity(entry.Title, entry.Description, p.taxonomy),
		RawData:     entry.Raw,
	}
}
