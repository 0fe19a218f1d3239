// build-index runs the offline similarity build: it joins the movie and
// credits datasets, derives the text features, computes the fused
// similarity matrix and writes the serving artifacts.
//
// Usage: go run main.go -movies=<csv> -credits=<csv> [-model=<dir>] [-db=<path>]
//
// Artifacts are written atomically, so a running server keeps serving the
// previous build until the new files are fully in place.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/mlively/cinematch/backend/internal/database"
	"github.com/mlively/cinematch/backend/internal/services"
)

func main() {
	dataDir := defaultEnv("DATA_DIR", "./data")
	moviesCSV := flag.String("movies", filepath.Join(dataDir, "tmdb_5000_movies.csv"), "path to the movie metadata CSV")
	creditsCSV := flag.String("credits", filepath.Join(dataDir, "tmdb_5000_credits.csv"), "path to the credits CSV")
	modelDir := flag.String("model", defaultEnv("MODEL_DIR", "./model"), "directory for the persisted artifacts")
	dbPath := flag.String("db", defaultEnv("DB_PATH", "./cinematch.db"), "path to the sqlite database")
	flag.Parse()

	if err := database.Initialize(*dbPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	result, err := services.RunBuild(*moviesCSV, *creditsCSV, *modelDir, database.GetDB())
	if err != nil {
		log.Fatalf("Build failed: %v", err)
	}

	log.Printf("Build %s: %d movies indexed in %v, artifacts in %s",
		result.Manifest.BuildID, result.MovieCount, result.Elapsed, *modelDir)
}

func defaultEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
