// fetch-posters runs one poster enrichment pass over the movie table.
//
// Usage: go run main.go [-db=<path>] [-download]
//
// The pass is idempotent: movies that already have a poster URL are
// skipped, and a single movie's fetch failure never stops the batch, so
// the command can be re-run until the catalog is fully enriched.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mlively/cinematch/backend/internal/database"
	"github.com/mlively/cinematch/backend/internal/services"
)

func main() {
	dbPath := flag.String("db", defaultEnv("DB_PATH", "./cinematch.db"), "path to the sqlite database")
	download := flag.Bool("download", false, "also download poster images into the local store")
	flag.Parse()

	if err := database.Initialize(*dbPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var store *services.PosterStore
	if *download {
		store = services.NewPosterStore()
	}
	fetcher := services.NewPosterFetcher(database.GetDB(), store)

	// Ctrl-C stops the pass cleanly between fetches.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Interrupted, finishing current fetch...")
		cancel()
	}()

	stats, err := fetcher.Run(ctx)
	if err != nil && ctx.Err() == nil {
		log.Fatalf("Poster pass failed: %v", err)
	}

	log.Printf("Done: %d updated, %d without posters, %d failures of %d scanned",
		stats.Updated, stats.Misses, stats.Failed, stats.Scanned)
}

func defaultEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
