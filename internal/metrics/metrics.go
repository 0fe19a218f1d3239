// Package metrics provides Prometheus metrics for the Cinematch backend.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinematch_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Search Metrics
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_searches_total",
			Help: "Total number of search queries by resolution method",
		},
		[]string{"method"}, // exact, case-insensitive, fuzzy, fuzzy-lower, genre-fallback, none
	)

	RecommendCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinematch_recommend_cache_hits_total",
			Help: "Recommendation requests served from the LRU cache",
		},
	)

	RecommendCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinematch_recommend_cache_misses_total",
			Help: "Recommendation requests computed from the similarity matrix",
		},
	)

	// Catalog Metrics
	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinematch_catalog_size",
			Help: "Number of movies loaded into the serving catalog",
		},
	)

	// Poster Enrichment Metrics
	PosterFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_poster_fetches_total",
			Help: "Poster page fetch attempts by outcome",
		},
		[]string{"result"}, // "ok", "miss", "error"
	)

	PosterBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cinematch_poster_batch_duration_seconds",
			Help:    "Time taken to run one poster enrichment pass",
			Buckets: []float64{1, 5, 15, 60, 300, 900, 3600},
		},
	)

	PostersMissing = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinematch_posters_missing",
			Help: "Movies still lacking a poster URL after the last pass",
		},
	)
)
