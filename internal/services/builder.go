package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mlively/cinematch/backend/internal/models"
)

// BuildResult reports what one offline build produced.
type BuildResult struct {
	Manifest   *BuildManifest
	MovieCount int
	Elapsed    time.Duration
}

// RunBuild executes the full offline pipeline: load and join the source
// datasets, derive features, build the fused similarity space, persist the
// matrix and title index to modelDir, and replace the movie table in the
// database. The movie table is written row-for-row in matrix order so the
// serving path can verify alignment at load time.
func RunBuild(moviesCSV, creditsCSV, modelDir string, db *gorm.DB) (*BuildResult, error) {
	start := time.Now()

	raws, err := LoadDataset(moviesCSV, creditsCSV)
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("dataset is empty after loading")
	}
	log.Printf("Loaded %d movies from source datasets", len(raws))

	titles := make([]string, len(raws))
	features := make([]MovieFeatures, len(raws))
	for i, raw := range raws {
		titles[i] = raw.Title
		features[i] = BuildFeatures(raw)
	}

	space := BuildSimilaritySpace(titles, features)
	log.Printf("Built %dx%d fused similarity matrix", space.Size(), space.Size())

	manifest, err := SaveArtifacts(modelDir, space)
	if err != nil {
		return nil, err
	}

	rows := make([]models.Movie, len(raws))
	for i, raw := range raws {
		rows[i] = models.Movie{
			RowIdx:      i,
			TMDBID:      raw.TMDBID,
			Title:       raw.Title,
			Overview:    strings.TrimSpace(raw.Overview),
			Genres:      strings.Join(parseNameList(raw.GenresJSON), " "),
			Keywords:    strings.Join(parseNameList(raw.KeywordsJSON), " "),
			Cast:        strings.Join(parseCastList(raw.CastJSON, maxCastNames), ", "),
			Director:    parseDirector(raw.CrewJSON),
			ReleaseDate: raw.ReleaseDate,
			VoteAverage: raw.VoteAverage,
			VoteCount:   raw.VoteCount,
			Popularity:  raw.Popularity,
		}
	}

	if err := replaceMovieTable(db, rows); err != nil {
		return nil, err
	}

	result := &BuildResult{
		Manifest:   manifest,
		MovieCount: len(rows),
		Elapsed:    time.Since(start),
	}
	log.Printf("Build %s complete: %d movies in %v", manifest.BuildID, result.MovieCount, result.Elapsed)
	return result, nil
}

// replaceMovieTable swaps in the new catalog in one transaction, carrying
// forward poster URLs from the previous build so the enrichment pass
// doesn't start from zero after every rebuild.
func replaceMovieTable(db *gorm.DB, rows []models.Movie) error {
	var existing []models.Movie
	if err := db.Select("title", "poster_url", "local_poster_file", "poster_fetched_at").
		Where("poster_url <> ''").Find(&existing).Error; err == nil {
		posters := make(map[string]models.Movie, len(existing))
		for _, m := range existing {
			if _, ok := posters[m.Title]; !ok {
				posters[m.Title] = m
			}
		}
		for i := range rows {
			if prev, ok := posters[rows[i].Title]; ok {
				rows[i].PosterURL = prev.PosterURL
				rows[i].LocalPosterFile = prev.LocalPosterFile
				rows[i].PosterFetchedAt = prev.PosterFetchedAt
			}
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Movie{}).Error; err != nil {
			return fmt.Errorf("failed to clear movie table: %w", err)
		}
		if err := tx.CreateInBatches(rows, 500).Error; err != nil {
			return fmt.Errorf("failed to write movie table: %w", err)
		}
		return nil
	})
}

// LoadMovieTable reads the catalog back in matrix order for serving.
func LoadMovieTable(db *gorm.DB) ([]models.Movie, error) {
	var movies []models.Movie
	if err := db.Order("row_idx").Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("failed to load movie table: %w", err)
	}
	return movies, nil
}
