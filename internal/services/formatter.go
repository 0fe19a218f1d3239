package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/mlively/cinematch/backend/internal/models"
)

// Display formatting constants.
const (
	tmdbMovieURL       = "https://www.themoviedb.org/movie/%d"
	overviewTruncateAt = 200
	overviewEllipsis   = "…"
)

// FormatMovie converts one catalog row into its display record. Malformed
// or absent numeric fields are omitted from the record, never propagated
// as errors.
func FormatMovie(m models.Movie) models.DisplayRecord {
	rec := models.DisplayRecord{
		Title:     m.Title,
		PosterURL: m.PosterURL,
		Overview:  truncateAtWord(m.Overview, overviewTruncateAt),
		Year:      yearOf(m.ReleaseDate),
	}

	if m.TMDBID > 0 {
		id := m.TMDBID
		rec.ID = &id
		rec.TMDBLink = fmt.Sprintf(tmdbMovieURL, id)
	}

	if m.VoteAverage > 0 {
		rating := math.Round(m.VoteAverage*10) / 10
		rec.Rating = &rating
	}

	return rec
}

// FormatMovies maps FormatMovie over a result list.
func FormatMovies(movies []models.Movie) []models.DisplayRecord {
	records := make([]models.DisplayRecord, len(movies))
	for i, m := range movies {
		records[i] = FormatMovie(m)
	}
	return records
}

// truncateAtWord shortens s to at most limit characters, cutting at the
// last word boundary and appending an ellipsis. Strings at or under the
// limit pass through untouched.
func truncateAtWord(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	cut := s[:limit]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + overviewEllipsis
}

// yearOf extracts the leading 4-digit year segment of a release date like
// "2009-12-10". Anything shorter yields "".
func yearOf(releaseDate string) string {
	d := strings.TrimSpace(releaseDate)
	if idx := strings.Index(d, "-"); idx >= 0 {
		d = d[:idx]
	}
	if len(d) == 4 {
		for _, r := range d {
			if r < '0' || r > '9' {
				return ""
			}
		}
		return d
	}
	return ""
}
