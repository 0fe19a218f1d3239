package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mlively/cinematch/backend/internal/models"
	"github.com/mlively/cinematch/backend/internal/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	raws := []services.RawMovie{
		{
			TMDBID:       19995,
			Title:        "Avatar",
			Overview:     "A Marine is dispatched to the moon Pandora on a unique mission.",
			GenresJSON:   `[{"name": "Action"}, {"name": "Science Fiction"}]`,
			KeywordsJSON: `[{"name": "space war"}]`,
			CastJSON:     `[{"name": "Sam Worthington"}]`,
			CrewJSON:     `[{"name": "James Cameron", "job": "Director"}]`,
			ReleaseDate:  "2009-12-10",
			VoteAverage:  7.2,
			Popularity:   150.4,
		},
		{
			TMDBID:       679,
			Title:        "Aliens",
			Overview:     "Marines fight an alien horror on a distant colony moon.",
			GenresJSON:   `[{"name": "Action"}, {"name": "Horror"}, {"name": "Science Fiction"}]`,
			KeywordsJSON: `[{"name": "space war"}]`,
			CastJSON:     `[{"name": "Sigourney Weaver"}]`,
			CrewJSON:     `[{"name": "James Cameron", "job": "Director"}]`,
			ReleaseDate:  "1986-07-18",
			VoteAverage:  7.7,
			Popularity:   60.9,
		},
		{
			TMDBID:       38757,
			Title:        "Tangled",
			Overview:     "A princess with magical golden hair leaves her tower.",
			GenresJSON:   `[{"name": "Animation"}, {"name": "Family"}]`,
			KeywordsJSON: `[{"name": "princess"}]`,
			CastJSON:     `[{"name": "Mandy Moore"}]`,
			CrewJSON:     `[{"name": "Nathan Greno", "job": "Director"}]`,
			ReleaseDate:  "2010-11-24",
			VoteAverage:  7.4,
			Popularity:   48.7,
		},
	}

	titles := make([]string, len(raws))
	features := make([]services.MovieFeatures, len(raws))
	rows := make([]models.Movie, len(raws))
	for i, raw := range raws {
		titles[i] = raw.Title
		features[i] = services.BuildFeatures(raw)
		rows[i] = models.Movie{
			RowIdx:      i,
			TMDBID:      raw.TMDBID,
			Title:       raw.Title,
			Overview:    raw.Overview,
			Genres:      features[i].Soup, // lowercased searchable text is enough here
			ReleaseDate: raw.ReleaseDate,
			VoteAverage: raw.VoteAverage,
			Popularity:  raw.Popularity,
		}
	}

	space := services.BuildSimilaritySpace(titles, features)
	library, err := services.NewLibrary(space.S, space.TitleIndex, rows)
	if err != nil {
		t.Fatalf("NewLibrary() error = %v", err)
	}
	recommender, err := services.NewRecommender(library)
	if err != nil {
		t.Fatalf("NewRecommender() error = %v", err)
	}

	handler := NewSearchHandler(library, services.NewResolver(library), recommender, services.NewKeywordSearch(library))

	router := gin.New()
	router.GET("/api/search", handler.Search)
	router.GET("/api/movies/titles", handler.Titles)
	router.GET("/api/movies/:id/similar", handler.SimilarByID)
	return router
}

func doSearch(t *testing.T, router *gin.Engine, url string) (int, models.SearchResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", url, nil)
	router.ServeHTTP(w, req)

	var resp models.SearchResponse
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return w.Code, resp
}

func TestSearch_ExactTitle(t *testing.T) {
	router := newTestRouter(t)

	code, resp := doSearch(t, router, "/api/search?q=Avatar")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.Method != "exact" || resp.ResolvedTitle != "Avatar" {
		t.Errorf("method/title = %s/%s, want exact/Avatar", resp.Method, resp.ResolvedTitle)
	}
	for _, r := range resp.Results {
		if r.Title == "Avatar" {
			t.Error("results must not include the resolved title itself")
		}
	}
	if len(resp.Results) == 0 {
		t.Error("expected recommendations")
	}
}

func TestSearch_TypoResolvesFuzzy(t *testing.T) {
	router := newTestRouter(t)

	code, resp := doSearch(t, router, "/api/search?q=Avatr")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.Method != "fuzzy" && resp.Method != "fuzzy-lower" {
		t.Errorf("method = %s, want fuzzy or fuzzy-lower", resp.Method)
	}
	if resp.ResolvedTitle != "Avatar" {
		t.Errorf("resolved title = %q, want Avatar", resp.ResolvedTitle)
	}
}

func TestSearch_GenreTokenBypassesResolution(t *testing.T) {
	router := newTestRouter(t)

	// "horror" is a category token: it must route to keyword search even
	// though a title could fuzzily match something.
	code, resp := doSearch(t, router, "/api/search?q=horror")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.Method != "genre-fallback" {
		t.Errorf("method = %s, want genre-fallback", resp.Method)
	}
	if resp.ResolvedTitle != "" {
		t.Errorf("genre query should not resolve a title, got %q", resp.ResolvedTitle)
	}
	found := false
	for _, r := range resp.Results {
		if r.Title == "Aliens" {
			found = true
		}
	}
	if !found {
		t.Errorf("Search(horror) results = %v, want Aliens (Horror genre)", resp.Results)
	}
}

func TestSearch_NoMatchFallsBackToKeywords(t *testing.T) {
	router := newTestRouter(t)

	code, resp := doSearch(t, router, "/api/search?q=princess")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.Method != "none" {
		t.Errorf("method = %s, want none (keyword fallback)", resp.Method)
	}
	if len(resp.Results) == 0 || resp.Results[0].Title != "Tangled" {
		t.Errorf("keyword fallback results = %v, want Tangled", resp.Results)
	}
}

func TestSearch_NoResultsIsEmptyNotError(t *testing.T) {
	router := newTestRouter(t)

	code, resp := doSearch(t, router, "/api/search?q=zzzzqqqq")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with empty result set", code)
	}
	if len(resp.Results) != 0 {
		t.Errorf("results = %v, want empty", resp.Results)
	}
	if resp.Method != "none" {
		t.Errorf("method = %s, want none", resp.Method)
	}
}

func TestSearch_MissingQueryParam(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/search", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSearch_ResultCountParameter(t *testing.T) {
	router := newTestRouter(t)

	_, resp := doSearch(t, router, "/api/search?q=Avatar&n=1")
	if len(resp.Results) != 1 {
		t.Errorf("got %d results, want 1", len(resp.Results))
	}
}

func TestTitles(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/movies/titles?limit=2", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		Titles []string `json:"titles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(body.Titles) != 2 || body.Titles[0] != "Avatar" {
		t.Errorf("titles = %v, want first two in row order", body.Titles)
	}
}

func TestSimilarByID(t *testing.T) {
	router := newTestRouter(t)

	code, resp := doSearch(t, router, "/api/movies/19995/similar")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.ResolvedTitle != "Avatar" {
		t.Errorf("resolved title = %q, want Avatar", resp.ResolvedTitle)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/movies/99999/similar", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", w.Code)
	}
}
