package services

import (
	"fmt"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mlively/cinematch/backend/internal/metrics"
	"github.com/mlively/cinematch/backend/internal/models"
)

// recommendCacheSize bounds the per-title result cache. The catalog is a
// few thousand movies, so this covers the popular head comfortably.
const recommendCacheSize = 512

// Recommender retrieves the nearest neighbors of a resolved title from the
// fused similarity matrix.
type Recommender struct {
	lib   *Library
	cache *lru.Cache[string, []models.Movie]
}

func NewRecommender(lib *Library) (*Recommender, error) {
	cache, err := lru.New[string, []models.Movie](recommendCacheSize)
	if err != nil {
		return nil, err
	}
	return &Recommender{lib: lib, cache: cache}, nil
}

// Recommend returns up to topN movies most similar to title, best first,
// never including the movie itself. The title must already be a canonical
// catalog title — resolution is the caller's job — and an unknown title
// returns an empty list rather than an error.
func (r *Recommender) Recommend(title string, topN int) []models.Movie {
	if topN <= 0 {
		return nil
	}

	key := fmt.Sprintf("%s|%d", title, topN)
	if cached, ok := r.cache.Get(key); ok {
		metrics.RecommendCacheHits.Inc()
		return cached
	}
	metrics.RecommendCacheMisses.Inc()

	idx, ok := r.lib.RowFor(title)
	if !ok {
		return []models.Movie{}
	}

	n := r.lib.Size()
	order := make([]int, 0, n-1)
	for i := 0; i < n; i++ {
		if i != idx {
			order = append(order, i)
		}
	}

	// Stable: equal scores keep original row order.
	sort.SliceStable(order, func(a, b int) bool {
		return r.lib.s.At(idx, order[a]) > r.lib.s.At(idx, order[b])
	})

	if len(order) > topN {
		order = order[:topN]
	}

	results := make([]models.Movie, len(order))
	for i, row := range order {
		results[i] = r.lib.MovieAt(row)
	}

	r.cache.Add(key, results)
	return results
}

// ScoreBetween returns the fused similarity of two canonical titles.
// Mostly useful for diagnostics.
func (r *Recommender) ScoreBetween(a, b string) (float64, bool) {
	ia, ok := r.lib.RowFor(a)
	if !ok {
		return 0, false
	}
	ib, ok := r.lib.RowFor(b)
	if !ok {
		return 0, false
	}
	return r.lib.s.At(ia, ib), true
}
