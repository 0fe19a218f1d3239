package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mlively/cinematch/backend/internal/api/handlers"
	"github.com/mlively/cinematch/backend/internal/metrics"
	"github.com/mlively/cinematch/backend/internal/services"
)

func SetupRouter(library *services.Library, resolver *services.Resolver, recommender *services.Recommender, keywords *services.KeywordSearch, posterWorker *services.PosterWorker, posterStore *services.PosterStore) *gin.Engine {
	router := gin.Default()
	router.Use(metricsMiddleware())

	// Get frontend dist path from env
	frontendPath := os.Getenv("FRONTEND_DIST_PATH")
	serveFrontend := frontendPath != "" && dirExists(frontendPath)

	// CORS configuration - allow origins from environment or use defaults
	config := cors.DefaultConfig()
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	config.AllowCredentials = false // Explicitly set
	router.Use(cors.New(config))

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(library, resolver, recommender, keywords)
	posterHandler := handlers.NewPosterHandler(posterWorker)

	// Serve locally cached poster images
	if posterStore != nil {
		router.Static("/images/posters", posterStore.GetStorageDir())
	}

	// API routes
	api := router.Group("/api")
	{
		api.GET("/search", searchHandler.Search)

		movies := api.Group("/movies")
		{
			movies.GET("/titles", searchHandler.Titles)
			movies.GET("/:id/similar", searchHandler.SimilarByID)
		}

		posters := api.Group("/posters")
		{
			posters.GET("/status", posterHandler.Status)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "movies": library.Size()})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Serve frontend static files
	if serveFrontend {
		indexPath := filepath.Join(frontendPath, "index.html")

		// Serve static assets
		router.Static("/assets", filepath.Join(frontendPath, "assets"))

		// Serve other static files (favicon, etc.)
		router.StaticFile("/vite.svg", filepath.Join(frontendPath, "vite.svg"))

		// Serve root index.html
		router.GET("/", func(c *gin.Context) {
			c.File(indexPath)
		})

		// SPA fallback - serve index.html for all non-API routes
		router.NoRoute(func(c *gin.Context) {
			path := c.Request.URL.Path

			// Don't serve index.html for API routes
			if strings.HasPrefix(path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}

			// Serve index.html for SPA routing
			c.File(indexPath)
		})
	}

	return router
}

// metricsMiddleware records request counts and latency per route. The
// matched route template is used as the path label so ids don't blow up
// metric cardinality.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
