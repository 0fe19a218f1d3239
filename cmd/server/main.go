package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mlively/cinematch/backend/internal/api"
	"github.com/mlively/cinematch/backend/internal/database"
	"github.com/mlively/cinematch/backend/internal/services"
)

func main() {
	// Database path
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./cinematch.db"
	}

	// Model artifacts directory
	modelDir := os.Getenv("MODEL_DIR")
	if modelDir == "" {
		modelDir = "./model"
	}

	// Initialize database
	if err := database.Initialize(dbPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Load the offline build artifacts. Missing or misaligned artifacts
	// mean the build step hasn't run for this catalog; refusing to start
	// beats serving with partial data.
	simMatrix, titleIndex, manifest, err := services.LoadArtifacts(modelDir)
	if err != nil {
		log.Fatalf("Failed to load artifacts from %s (run build-index first): %v", modelDir, err)
	}

	movies, err := services.LoadMovieTable(database.GetDB())
	if err != nil {
		log.Fatalf("Failed to load movie table: %v", err)
	}

	library, err := services.NewLibrary(simMatrix, titleIndex, movies)
	if err != nil {
		log.Fatalf("Artifacts are inconsistent with the movie table: %v", err)
	}
	log.Printf("Loaded %d movies from build %s (%s)", library.Size(), manifest.BuildID, manifest.BuiltAt.Format(time.RFC3339))

	// Initialize retrieval services over the read-only library
	resolver := services.NewResolver(library)
	recommender, err := services.NewRecommender(library)
	if err != nil {
		log.Fatalf("Failed to initialize recommender: %v", err)
	}
	keywords := services.NewKeywordSearch(library)

	// Initialize poster storage
	posterStore := services.NewPosterStore()

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optionally run the poster enrichment worker in the background
	var posterWorker *services.PosterWorker
	if os.Getenv("FETCH_POSTERS_ON_STARTUP") == "true" {
		posterWorker = services.NewPosterWorker(services.NewPosterFetcher(database.GetDB(), posterStore))
		go func() {
			for {
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in poster worker: %v - restarting in 30 seconds", r)
						}
					}()
					posterWorker.Start(ctx)
				}()

				select {
				case <-ctx.Done():
					return // Graceful shutdown
				case <-time.After(30 * time.Second):
					log.Println("Poster worker restarting after panic recovery...")
				}
			}
		}()
	}

	// Setup router
	router := api.SetupRouter(library, resolver, recommender, keywords, posterWorker, posterStore)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Cancel the context to stop the poster worker
	cancel()

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
