package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/logisticlabs/supplywatch/internal/metrics"
)

// Scheduler triggers the pipeline on a fixed interval, with one run
// shortly after startup. A mutex guarantees runs never overlap: a
// scheduled tick that fires while a run is still executing is skipped,
// while an explicit Run (the refresh endpoint) waits its turn.
type Scheduler struct {
	pipeline     *Pipeline
	interval     time.Duration
	initialDelay time.Duration

	mu sync.Mutex
}

func NewScheduler(p *Pipeline, interval, initialDelay time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 4 * time.Hour
	}
	return &Scheduler{pipeline: p, interval: interval, initialDelay: initialDelay}
}

// Start blocks until ctx is cancelled, running the pipeline at every
// interval tick. Callers run it in a goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	if s.initialDelay >= 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.initialDelay):
			s.tick(ctx)
		}
	}

	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.tick(ctx)
		}
	}
}

// tick runs the pipeline unless a run is already in flight, in which
// case the trigger is dropped.
func (s *Scheduler) tick(ctx context.Context) {
	if !s.mu.TryLock() {
		metrics.RunsSkipped.Inc()
		log.Warn().Msg("previous ingestion run still in flight, skipping tick")
		return
	}
	defer s.mu.Unlock()

	if _, _, err := s.pipeline.Run(ctx); err != nil {
		log.Error().Err(err).Msg("scheduled ingestion run failed")
	}
}

// Run executes one synchronous ingestion run, waiting for any in-flight
// run to finish first. It backs the refresh endpoint.
func (s *Scheduler) Run(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, _, err := s.pipeline.Run(ctx)
	return n, err
}
