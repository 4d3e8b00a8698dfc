// Package metrics exposes Prometheus collectors for the ingestion
// pipeline and the HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AlertsIngested counts newly inserted alerts per source.
	AlertsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "supplywatch",
		Name:      "alerts_ingested_total",
		Help:      "Number of new alerts inserted, by source.",
	}, []string{"source"})

	// FetchErrors counts failed source fetches.
	FetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "supplywatch",
		Name:      "fetch_errors_total",
		Help:      "Number of failed feed fetches, by source.",
	}, []string{"source"})

	// RunDuration observes how long a full ingestion run takes.
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "supplywatch",
		Name:      "ingest_run_duration_seconds",
		Help:      "Duration of full ingestion runs.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	// RunsSkipped counts scheduler ticks skipped because a run was
	// still in flight.
	RunsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "supplywatch",
		Name:      "ingest_runs_skipped_total",
		Help:      "Scheduler triggers skipped due to an in-flight run.",
	})
)
