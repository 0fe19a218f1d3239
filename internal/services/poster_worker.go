package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// defaultPosterInterval is how often the background worker re-scans the
// catalog for rows still missing posters. The fetcher itself skips filled
// rows, so frequent passes are cheap once the catalog is enriched.
const defaultPosterInterval = 6 * time.Hour

// PosterWorker runs the poster enrichment pass in the background of the
// serving process, for deployments that don't schedule the standalone
// batch command.
type PosterWorker struct {
	fetcher  *PosterFetcher
	interval time.Duration

	mu        sync.RWMutex
	lastRun   time.Time
	lastStats PosterFetchStats
}

// PosterWorkerStatus is the operator-facing view of the worker.
type PosterWorkerStatus struct {
	LastRunTime time.Time        `json:"last_run_time"`
	NextRunTime time.Time        `json:"next_run_time"`
	LastStats   PosterFetchStats `json:"last_stats"`
}

func NewPosterWorker(fetcher *PosterFetcher) *PosterWorker {
	return &PosterWorker{
		fetcher:  fetcher,
		interval: defaultPosterInterval,
	}
}

// Start begins the background poster enrichment worker
func (w *PosterWorker) Start(ctx context.Context) {
	log.Printf("Poster worker started: will scan for missing posters every %v", w.interval)

	// Run immediately on startup
	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Poster worker stopping...")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *PosterWorker) runOnce(ctx context.Context) {
	stats, err := w.fetcher.Run(ctx)
	if err != nil && ctx.Err() == nil {
		log.Printf("Poster worker: pass failed: %v", err)
	}

	w.mu.Lock()
	w.lastRun = time.Now()
	w.lastStats = stats
	w.mu.Unlock()
}

// GetStatus returns the last pass results and the projected next run.
func (w *PosterWorker) GetStatus() PosterWorkerStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return PosterWorkerStatus{
		LastRunTime: w.lastRun,
		NextRunTime: w.lastRun.Add(w.interval),
		LastStats:   w.lastStats,
	}
}
