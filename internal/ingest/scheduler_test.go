package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/logisticlabs/supplywatch/internal/feed"
)

func TestSchedulerRunReturnsCount(t *testing.T) {
	sources := []feed.Source{{Name: "src", URL: "http://example.com/feed"}}
	fetcher := &stubFetcher{entries: map[string][]feed.Entry{
		"src": {entry("Delta", "https://example.com/d")},
	}}
	p, _ := newTestPipeline(t, fetcher, sources)
	s := NewScheduler(p, time.Hour, -1)

	n, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 new alert, got %d", n)
	}
}

func TestSchedulerTickSkipsWhileRunInFlight(t *testing.T) {
	fetcher := &stubFetcher{}
	p, _ := newTestPipeline(t, fetcher, []feed.Source{{Name: "src"}})
	s := NewScheduler(p, time.Hour, -1)

	// simulate an in-flight run holding the guard
	s.mu.Lock()
	s.tick(context.Background())
	s.mu.Unlock()

	if fetcher.calls.Load() != 0 {
		t.Fatal("tick must not start a run while another is in flight")
	}

	s.tick(context.Background())
	if fetcher.calls.Load() != 1 {
		t.Fatal("tick should run once the guard is free")
	}
}

func TestSchedulerInitialRun(t *testing.T) {
	fetcher := &stubFetcher{}
	p, _ := newTestPipeline(t, fetcher, []feed.Source{{Name: "src"}})
	s := NewScheduler(p, time.Hour, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	deadline := time.After(250 * time.Millisecond)
	for fetcher.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("startup run did not happen")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}

func TestSchedulerDisabledInitialRun(t *testing.T) {
	fetcher := &stubFetcher{}
	p, _ := newTestPipeline(t, fetcher, []feed.Source{{Name: "src"}})
	s := NewScheduler(p, time.Hour, -1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	if fetcher.calls.Load() != 0 {
		t.Fatal("negative initial delay must disable the startup run")
	}
	cancel()
	<-done
}
