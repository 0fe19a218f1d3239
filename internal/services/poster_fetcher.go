package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/mlively/cinematch/backend/internal/metrics"
	"github.com/mlively/cinematch/backend/internal/models"
)

const (
	tmdbPageURL = "https://www.themoviedb.org/movie/%d"

	// posterFetchUserAgent mimics a browser; the detail pages block the
	// default Go client string.
	posterFetchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119 Safari/537.36"

	// posterFetchRate paces requests at roughly one per 350ms to stay
	// polite to the remote service.
	posterFetchRate = rate.Limit(1000.0 / 350.0)
)

// PosterFetcher fills in poster URLs for catalog rows that lack one, by
// scraping each movie's public detail page. It is idempotent: rows that
// already carry a poster are skipped, so the batch can be re-run freely.
type PosterFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	db      *gorm.DB
	store   *PosterStore // optional local image cache, may be nil
	baseURL string
}

// PosterFetchStats summarizes one enrichment pass.
type PosterFetchStats struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
	Misses  int `json:"misses"`
	Failed  int `json:"failed"`
}

func NewPosterFetcher(db *gorm.DB, store *PosterStore) *PosterFetcher {
	return &PosterFetcher{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(posterFetchRate, 1),
		db:      db,
		store:   store,
		baseURL: tmdbPageURL,
	}
}

// Run performs one enrichment pass over every movie missing a poster.
// A single movie's failure (bad status, network error, no extractable
// image) is logged and skipped; it never aborts the batch.
func (f *PosterFetcher) Run(ctx context.Context) (PosterFetchStats, error) {
	start := time.Now()
	var stats PosterFetchStats

	var pending []models.Movie
	err := f.db.Where("poster_url = '' AND tmdb_id > 0").Order("row_idx").Find(&pending).Error
	if err != nil {
		return stats, fmt.Errorf("failed to list movies missing posters: %w", err)
	}

	log.Printf("Poster pass: %d movies missing posters", len(pending))

	for i := range pending {
		m := &pending[i]
		stats.Scanned++

		if err := f.limiter.Wait(ctx); err != nil {
			// Context cancelled: report what we managed so far.
			return stats, err
		}

		posterURL, err := f.fetchPosterURL(ctx, m.TMDBID)
		if err != nil {
			stats.Failed++
			metrics.PosterFetchesTotal.WithLabelValues("error").Inc()
			log.Printf("Poster fetch failed for %q (id=%d): %v", m.Title, m.TMDBID, err)
			continue
		}
		if posterURL == "" {
			stats.Misses++
			metrics.PosterFetchesTotal.WithLabelValues("miss").Inc()
			log.Printf("No poster found for %q (id=%d)", m.Title, m.TMDBID)
			continue
		}

		updates := map[string]any{
			"poster_url":        posterURL,
			"poster_fetched_at": time.Now().UTC(),
		}
		if f.store != nil {
			if filename, err := f.store.Download(ctx, f.client, posterURL); err != nil {
				log.Printf("Poster download failed for %q: %v", m.Title, err)
			} else {
				updates["local_poster_file"] = filename
			}
		}

		if err := f.db.Model(&models.Movie{}).Where("row_idx = ?", m.RowIdx).Updates(updates).Error; err != nil {
			stats.Failed++
			log.Printf("Failed to store poster for %q: %v", m.Title, err)
			continue
		}

		stats.Updated++
		metrics.PosterFetchesTotal.WithLabelValues("ok").Inc()
	}

	metrics.PosterBatchDuration.Observe(time.Since(start).Seconds())
	metrics.PostersMissing.Set(float64(stats.Misses + stats.Failed))
	log.Printf("Poster pass done: %d updated, %d misses, %d failures of %d scanned",
		stats.Updated, stats.Misses, stats.Failed, stats.Scanned)
	return stats, nil
}

// fetchPosterURL retrieves one detail page and extracts a poster image URL,
// or "" when the page has none.
func (f *PosterFetcher) fetchPosterURL(ctx context.Context, tmdbID int) (string, error) {
	reqURL := fmt.Sprintf(f.baseURL, tmdbID)

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", posterFetchUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch detail page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("detail page returned status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse detail page: %w", err)
	}

	return extractPosterURL(doc), nil
}

// extractPosterURL runs the extraction cascade over a parsed page:
//  1. <meta property="og:image" content="...">
//  2. <img class="poster" src="...">
//  3. the first <img> whose src contains "poster" or the image-CDN
//     path segment "/t/p/"
func extractPosterURL(doc *html.Node) string {
	if u := findMetaOGImage(doc); u != "" {
		return u
	}
	if u := findImage(doc, func(class, src string) bool {
		return hasClass(class, "poster") && src != ""
	}); u != "" {
		return u
	}
	return findImage(doc, func(class, src string) bool {
		return strings.Contains(src, "poster") || strings.Contains(src, "/t/p/")
	})
}

func findMetaOGImage(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "meta" {
		var property, content string
		for _, attr := range n.Attr {
			switch attr.Key {
			case "property":
				property = attr.Val
			case "content":
				content = attr.Val
			}
		}
		if property == "og:image" && strings.TrimSpace(content) != "" {
			return strings.TrimSpace(content)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if u := findMetaOGImage(c); u != "" {
			return u
		}
	}
	return ""
}

func findImage(n *html.Node, match func(class, src string) bool) string {
	if n.Type == html.ElementNode && n.Data == "img" {
		var class, src string
		for _, attr := range n.Attr {
			switch attr.Key {
			case "class":
				class = attr.Val
			case "src":
				src = attr.Val
			}
		}
		src = strings.TrimSpace(src)
		if src != "" && match(class, src) {
			return src
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if u := findImage(c, match); u != "" {
			return u
		}
	}
	return ""
}

func hasClass(classAttr, class string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == class {
			return true
		}
	}
	return false
}
