package services

import (
	"sort"
	"strings"

	"github.com/mlively/cinematch/backend/internal/models"
)

// KeywordSearch is the recall-oriented fallback for queries that resolve
// to no title: a case-insensitive substring scan over genres, keywords,
// overview and title.
type KeywordSearch struct {
	lib *Library
}

func NewKeywordSearch(lib *Library) *KeywordSearch {
	return &KeywordSearch{lib: lib}
}

// Search returns up to topN movies whose genres, keywords, overview or
// title contain the query as a case-insensitive substring, so partial
// words match ("war" finds "Warfare"). Candidates are ranked by the
// popularity field when any candidate carries one; otherwise they stay in
// dataset row order. Row order is not a relevance ranking — it is a
// documented limitation of datasets that ship without a popularity signal.
func (k *KeywordSearch) Search(query string, topN int) []models.Movie {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || topN <= 0 {
		return []models.Movie{}
	}

	var hits []int
	for i := range k.lib.searchText {
		st := &k.lib.searchText[i]
		if strings.Contains(st.genres, q) ||
			strings.Contains(st.keywords, q) ||
			strings.Contains(st.overview, q) ||
			strings.Contains(st.title, q) {
			hits = append(hits, i)
		}
	}
	if len(hits) == 0 {
		return []models.Movie{}
	}

	hasPopularity := false
	for _, i := range hits {
		if k.lib.movies[i].Popularity > 0 {
			hasPopularity = true
			break
		}
	}
	if hasPopularity {
		sort.SliceStable(hits, func(a, b int) bool {
			return k.lib.movies[hits[a]].Popularity > k.lib.movies[hits[b]].Popularity
		})
	}

	if len(hits) > topN {
		hits = hits[:topN]
	}

	results := make([]models.Movie, len(hits))
	for i, row := range hits {
		results[i] = k.lib.MovieAt(row)
	}
	return results
}
