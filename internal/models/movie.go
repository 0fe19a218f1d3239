package models

import (
	"time"
)

// Movie is one row of the recommendable catalog. Rows are written once by
// the offline build and are read-only at serve time, except for PosterURL
// and LocalPosterFile which the poster enrichment pass fills in.
type Movie struct {
	// RowIdx is the movie's position in the similarity matrix. Row i of
	// the matrix, row i of this table and the title index entry must all
	// refer to the same movie.
	RowIdx          int        `json:"row_idx" gorm:"primaryKey;autoIncrement:false"`
	TMDBID          int        `json:"tmdb_id" gorm:"index"`
	Title           string     `json:"title" gorm:"not null;index"`
	Overview        string     `json:"overview"`
	Genres          string     `json:"genres"`   // space-joined genre names, e.g. "Action Adventure Fantasy"
	Keywords        string     `json:"keywords"` // space-joined keyword phrases
	Cast            string     `json:"cast"`     // comma-joined top-5 principal names
	Director        string     `json:"director"`
	ReleaseDate     string     `json:"release_date"`
	VoteAverage     float64    `json:"vote_average"`
	VoteCount       int        `json:"vote_count"`
	Popularity      float64    `json:"popularity"`
	PosterURL       string     `json:"poster_url"`
	LocalPosterFile string     `json:"local_poster_file"`
	PosterFetchedAt *time.Time `json:"poster_fetched_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// HasPoster reports whether the enrichment pass already filled this row.
func (m *Movie) HasPoster() bool {
	return m.PosterURL != ""
}
