package services

import (
	"fmt"
	"strings"

	"github.com/mlively/cinematch/backend/internal/metrics"
	"github.com/mlively/cinematch/backend/internal/models"
	"gonum.org/v1/gonum/mat"
)

// Library is the read-only serving context: the fused similarity matrix,
// the title index and the movie table, loaded once at startup and never
// mutated while serving. All retrieval services read from it without
// locking.
type Library struct {
	s          *mat.Dense
	titleIndex map[string]int
	movies     []models.Movie

	// Derived lookup structures, built once in NewLibrary.
	lowerToTitle map[string]string
	allTitles    []string
	searchText   []searchableMovie
}

// searchableMovie carries the pre-lowered fields keyword search matches
// against, so each query doesn't re-lower the whole catalog.
type searchableMovie struct {
	title    string
	genres   string
	keywords string
	overview string
}

// NewLibrary validates row alignment between the matrix, the index and the
// movie table and builds the derived lookups. Misalignment means the
// persisted artifacts came from different builds; refusing to construct is
// the only safe response.
func NewLibrary(s *mat.Dense, titleIndex map[string]int, movies []models.Movie) (*Library, error) {
	rows, cols := s.Dims()
	if rows != cols {
		return nil, fmt.Errorf("similarity matrix is not square: %dx%d", rows, cols)
	}
	if rows != len(movies) {
		return nil, fmt.Errorf("similarity matrix has %d rows but movie table has %d", rows, len(movies))
	}
	for title, idx := range titleIndex {
		if idx < 0 || idx >= rows {
			return nil, fmt.Errorf("title index entry %q points at row %d outside matrix of size %d", title, idx, rows)
		}
		if strings.TrimSpace(title) == "" {
			return nil, fmt.Errorf("title index contains an empty title at row %d", idx)
		}
	}
	for i := range movies {
		if movies[i].RowIdx != i {
			return nil, fmt.Errorf("movie table row %d carries row index %d", i, movies[i].RowIdx)
		}
	}

	lib := &Library{
		s:            s,
		titleIndex:   titleIndex,
		movies:       movies,
		lowerToTitle: make(map[string]string, len(movies)),
		allTitles:    make([]string, 0, len(movies)),
		searchText:   make([]searchableMovie, len(movies)),
	}

	for i := range movies {
		m := &movies[i]
		lib.allTitles = append(lib.allTitles, m.Title)
		// First occurrence wins, same rule as the title index.
		low := strings.ToLower(m.Title)
		if _, ok := lib.lowerToTitle[low]; !ok {
			lib.lowerToTitle[low] = m.Title
		}
		lib.searchText[i] = searchableMovie{
			title:    low,
			genres:   strings.ToLower(m.Genres),
			keywords: strings.ToLower(m.Keywords),
			overview: strings.ToLower(m.Overview),
		}
	}

	metrics.CatalogSize.Set(float64(len(movies)))
	return lib, nil
}

// Size returns the number of movies in the catalog.
func (l *Library) Size() int {
	return len(l.movies)
}

// Titles returns up to limit catalog titles in row order, for autocomplete.
func (l *Library) Titles(limit int) []string {
	if limit <= 0 || limit > len(l.allTitles) {
		limit = len(l.allTitles)
	}
	out := make([]string, limit)
	copy(out, l.allTitles[:limit])
	return out
}

// MovieAt returns the movie at row idx.
func (l *Library) MovieAt(idx int) models.Movie {
	return l.movies[idx]
}

// MovieByTMDBID returns the first movie with the given external id.
func (l *Library) MovieByTMDBID(id int) (models.Movie, bool) {
	for i := range l.movies {
		if l.movies[i].TMDBID == id {
			return l.movies[i], true
		}
	}
	return models.Movie{}, false
}

// RowFor returns the matrix row for a canonical title.
func (l *Library) RowFor(title string) (int, bool) {
	idx, ok := l.titleIndex[title]
	return idx, ok
}
