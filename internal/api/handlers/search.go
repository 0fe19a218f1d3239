package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mlively/cinematch/backend/internal/metrics"
	"github.com/mlively/cinematch/backend/internal/models"
	"github.com/mlively/cinematch/backend/internal/services"
)

// Default result counts: title matches narrow to a short ranked list,
// keyword fallback broadens.
const (
	defaultRecommendCount = 12
	defaultKeywordCount   = 24
	maxResultCount        = 100
	maxDatalistTitles     = 2000
)

type SearchHandler struct {
	library     *services.Library
	resolver    *services.Resolver
	recommender *services.Recommender
	keywords    *services.KeywordSearch
}

func NewSearchHandler(library *services.Library, resolver *services.Resolver, recommender *services.Recommender, keywords *services.KeywordSearch) *SearchHandler {
	return &SearchHandler{
		library:     library,
		resolver:    resolver,
		recommender: recommender,
		keywords:    keywords,
	}
}

// Search is the main query endpoint. Genre-token queries go straight to
// keyword search; everything else runs through title resolution and falls
// back to keyword search on a miss. An empty result set is a normal 200,
// never an error page.
func (h *SearchHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}

	resp := models.SearchResponse{Query: query}

	if services.IsGenreToken(query) {
		resp.Method = string(services.MatchGenreFallback)
		count := h.resultCount(c, defaultKeywordCount)
		resp.Results = services.FormatMovies(h.keywords.Search(query, count))
	} else if title, method := h.resolver.Resolve(query); method != services.MatchNone {
		resp.Method = string(method)
		resp.ResolvedTitle = title
		count := h.resultCount(c, defaultRecommendCount)
		resp.Results = services.FormatMovies(h.recommender.Recommend(title, count))
	} else {
		resp.Method = string(services.MatchNone)
		count := h.resultCount(c, defaultKeywordCount)
		resp.Results = services.FormatMovies(h.keywords.Search(query, count))
	}

	metrics.SearchesTotal.WithLabelValues(resp.Method).Inc()
	c.JSON(http.StatusOK, resp)
}

// Titles serves the autocomplete list, capped for payload size.
func (h *SearchHandler) Titles(c *gin.Context) {
	limit := maxDatalistTitles
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v < limit {
			limit = v
		}
	}
	c.JSON(http.StatusOK, gin.H{"titles": h.library.Titles(limit)})
}

// SimilarByID returns recommendations for a movie addressed by its TMDB id.
func (h *SearchHandler) SimilarByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return
	}

	movie, ok := h.library.MovieByTMDBID(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
		return
	}

	count := h.resultCount(c, defaultRecommendCount)
	c.JSON(http.StatusOK, models.SearchResponse{
		Query:         c.Param("id"),
		ResolvedTitle: movie.Title,
		Method:        string(services.MatchExact),
		Results:       services.FormatMovies(h.recommender.Recommend(movie.Title, count)),
	})
}

func (h *SearchHandler) resultCount(c *gin.Context, fallback int) int {
	raw := c.Query("n")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	if v > maxResultCount {
		return maxResultCount
	}
	return v
}
